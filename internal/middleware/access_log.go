package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
)

// AccessLog records admin panel requests in the local store's audit trail.
// Recording failures are logged and never block the request.
func AccessLog(store *localstore.Store, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := models.AccessLogEntry{
				Timestamp: time.Now().UTC(),
				Action:    action,
				IP:        clientIP(r),
			}
			if err := store.AppendAccessLog(entry); err != nil {
				observability.Warnf("recording access log: %v", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
