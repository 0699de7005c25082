package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_session"

// SessionStore keeps admin session tokens in memory. Sessions do not survive
// a restart, which matches the single-admin deployment this serves.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
}

// NewSessionStore creates a session store with the given lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
	}
}

// Create mints a new session token.
func (s *SessionStore) Create() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Valid reports whether the token names a live session. Expired tokens are
// removed as a side effect.
func (s *SessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Revoke drops a session token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// PasswordChecker verifies the admin password. A bcrypt hash takes precedence
// over the plaintext secret when both are configured.
type PasswordChecker struct {
	plaintext string
	hash      string
}

// NewPasswordChecker builds a checker from the configured secrets.
func NewPasswordChecker(plaintext, hash string) *PasswordChecker {
	return &PasswordChecker{plaintext: plaintext, hash: hash}
}

// Check verifies a candidate password.
func (p *PasswordChecker) Check(candidate string) bool {
	if p.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(candidate)) == nil
	}
	if p.plaintext == "" {
		return false
	}
	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(p.plaintext), []byte(candidate)) == 1
}

// AdminAuth creates middleware requiring a live admin session cookie.
func AdminAuth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required."})
				return
			}

			if !sessions.Valid(cookie.Value) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Session expired or invalid."})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
