package gallery

import (
	"context"
	"sync"

	"github.com/gradgallery/server/internal/models"
)

// ErrResolveInFlight is returned when a refresh is requested while another
// resolve is still running. Overlapping resolves are rejected rather than
// queued.
var ErrResolveInFlight = models.PhotoError{Message: "photo resolve already in progress"}

// PageSession owns one page load's photo cache: the resolved snapshot, its
// source tag, an initialization guard and the in-flight flag that serializes
// resolves.
//
// The snapshot is always a full replacement taken from exactly one backing
// source; readers get copies and must never see a merge of tiers.
type PageSession struct {
	resolver *Resolver

	mu          sync.Mutex
	photos      []models.PhotoRecord
	source      Source
	initialized bool
	resolving   bool
}

// NewPageSession creates an empty session over the resolver. Nothing is
// resolved until Init or Refresh.
func NewPageSession(resolver *Resolver) *PageSession {
	return &PageSession{resolver: resolver}
}

// Init runs the first resolve. The guard flips irreversibly once setup
// completes, so a double-fired ready event is a no-op, and a concurrent init
// already in flight is silently skipped rather than doubled.
func (s *PageSession) Init(ctx context.Context) error {
	s.mu.Lock()
	done := s.initialized
	s.mu.Unlock()
	if done {
		return nil
	}

	if err := s.Refresh(ctx); err != nil {
		if err == ErrResolveInFlight {
			return nil
		}
		return err
	}
	return nil
}

// Refresh re-runs the full fallback chain and replaces the snapshot
// wholesale. Overlapping calls are rejected with ErrResolveInFlight.
func (s *PageSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.resolving {
		s.mu.Unlock()
		return ErrResolveInFlight
	}
	s.resolving = true
	s.mu.Unlock()

	// The resolve itself runs without the lock: providers do I/O.
	photos, source := s.resolver.Resolve(ctx)

	s.mu.Lock()
	s.photos = photos
	s.source = source
	s.initialized = true
	s.resolving = false
	s.mu.Unlock()
	return nil
}

// Photos returns a copy of the current snapshot.
func (s *PageSession) Photos() []models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PhotoRecord, len(s.photos))
	copy(out, s.photos)
	return out
}

// Source reports which tier produced the current snapshot.
func (s *PageSession) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Initialized reports whether the first resolve has completed.
func (s *PageSession) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Filter returns the snapshot restricted to a category. An empty category or
// "all" returns everything. Filtering reads the cache only; it never touches
// the backing stores.
func (s *PageSession) Filter(category string) []models.PhotoRecord {
	photos := s.Photos()
	if category == "" || category == "all" {
		return photos
	}

	filtered := make([]models.PhotoRecord, 0, len(photos))
	for _, p := range photos {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Find locates a record in the snapshot by id.
func (s *PageSession) Find(id string) (models.PhotoRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.photos {
		if p.ID == id {
			return p, true
		}
	}
	return models.PhotoRecord{}, false
}

// CategoryCounts aggregates the snapshot per category. Unrecognized categories
// are counted under ceremony.
func (s *PageSession) CategoryCounts() models.CategoryStats {
	stats := models.CategoryStats{}
	for _, p := range s.Photos() {
		switch models.NormalizeCategory(p.Category) {
		case models.CategoryFriends:
			stats.Friends++
		case models.CategoryFamily:
			stats.Family++
		default:
			stats.Ceremony++
		}
	}
	return stats
}
