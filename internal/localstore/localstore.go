// Package localstore is a JSON-file-backed key-value space mirroring the
// browser-local store of the hosting deployment. Collections live under
// well-known keys and the only write primitive is a full-value overwrite:
// callers always read-modify-write whole collections, there is no append at
// the storage layer. Writes within one process are serialized by the store's
// lock; a second process (or admin tab) writing the same file is last-write-
// wins, exactly like the browser-local store this mirrors.
package localstore

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gradgallery/server/internal/models"
)

// Well-known keys.
const (
	KeyPhotos     = "graduation_photos"
	KeyStats      = "site_stats"
	KeyActivities = "activities"
	KeyAccessLogs = "accessLogs"
)

// MaxActivities bounds the activity feed; older entries are dropped.
const MaxActivities = 10

// SiteStats are the page view counters kept under KeyStats.
type SiteStats struct {
	Views       int       `json:"views"`
	TotalPhotos int       `json:"totalPhotos"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// Store persists the key-value space in a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store backed by the given file. The file is created lazily on
// first write.
func New(path string) *Store {
	return &Store{path: path}
}

// load reads the whole space. A missing or corrupt file yields an empty space,
// never an error: a reader must not be taken down by bad persisted state.
func (s *Store) load() map[string]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]json.RawMessage{}
	}

	space := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &space); err != nil {
		return map[string]json.RawMessage{}
	}
	return space
}

// save serializes the whole space back to disk.
func (s *Store) save(space map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(space, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// getJSON decodes one key into out. Missing or corrupt values leave out
// untouched.
func (s *Store) getJSON(space map[string]json.RawMessage, key string, out interface{}) {
	raw, ok := space[key]
	if !ok {
		return
	}
	// Corrupt value: treated as absent.
	_ = json.Unmarshal(raw, out)
}

func (s *Store) putJSON(space map[string]json.RawMessage, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	space[key] = raw
	return nil
}

// Photos returns the persisted photo collection. Missing or corrupt data
// yields an empty slice.
func (s *Store) Photos() []models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := []models.PhotoRecord{}
	s.getJSON(s.load(), KeyPhotos, &photos)
	models.NormalizeAll(photos)
	return photos
}

// PutPhotos overwrites the entire photo collection. This is deliberately the
// only way to change it; see the package comment.
func (s *Store) PutPhotos(photos []models.PhotoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space := s.load()
	if err := s.putJSON(space, KeyPhotos, photos); err != nil {
		return err
	}

	stats := SiteStats{}
	s.getJSON(space, KeyStats, &stats)
	stats.TotalPhotos = len(photos)
	stats.LastUpdate = time.Now().UTC()
	if err := s.putJSON(space, KeyStats, stats); err != nil {
		return err
	}

	return s.save(space)
}

// ClearPhotos empties the photo collection.
func (s *Store) ClearPhotos() error {
	return s.PutPhotos([]models.PhotoRecord{})
}

// Stats returns the current view counters.
func (s *Store) Stats() SiteStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SiteStats{}
	s.getJSON(s.load(), KeyStats, &stats)
	return stats
}

// IncrementViews bumps the page view counter.
func (s *Store) IncrementViews() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space := s.load()
	stats := SiteStats{}
	s.getJSON(space, KeyStats, &stats)
	stats.Views++
	stats.LastUpdate = time.Now().UTC()
	if err := s.putJSON(space, KeyStats, stats); err != nil {
		return err
	}
	return s.save(space)
}

// AddActivity prepends an entry to the activity feed, keeping at most
// MaxActivities entries.
func (s *Store) AddActivity(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space := s.load()
	activities := []models.ActivityEntry{}
	s.getJSON(space, KeyActivities, &activities)

	activities = append([]models.ActivityEntry{{
		Timestamp: time.Now().UTC(),
		Message:   message,
	}}, activities...)
	if len(activities) > MaxActivities {
		activities = activities[:MaxActivities]
	}

	if err := s.putJSON(space, KeyActivities, activities); err != nil {
		return err
	}
	return s.save(space)
}

// Activities returns the feed, most recent first.
func (s *Store) Activities() []models.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities := []models.ActivityEntry{}
	s.getJSON(s.load(), KeyActivities, &activities)
	return activities
}

// AppendAccessLog records one admin access. The log is read-only in the admin
// surface, so no bound is enforced here.
func (s *Store) AppendAccessLog(entry models.AccessLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space := s.load()
	logs := []models.AccessLogEntry{}
	s.getJSON(space, KeyAccessLogs, &logs)
	logs = append(logs, entry)

	if err := s.putJSON(space, KeyAccessLogs, logs); err != nil {
		return err
	}
	return s.save(space)
}

// AccessLogs returns the audit trail in append order.
func (s *Store) AccessLogs() []models.AccessLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := []models.AccessLogEntry{}
	s.getJSON(s.load(), KeyAccessLogs, &logs)
	return logs
}
