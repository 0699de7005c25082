package services

import (
	"time"

	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
)

// ActivityFeed records admin actions in the local store and fans them out to
// connected WebSocket clients. It satisfies the mutation pipeline's Notifier.
type ActivityFeed struct {
	store *localstore.Store
	hub   *WebSocketHub
}

// NewActivityFeed creates an ActivityFeed. The hub may be nil when live
// updates are disabled.
func NewActivityFeed(store *localstore.Store, hub *WebSocketHub) *ActivityFeed {
	return &ActivityFeed{store: store, hub: hub}
}

// Activity appends an entry to the bounded feed and broadcasts it.
func (f *ActivityFeed) Activity(message string) {
	if err := f.store.AddActivity(message); err != nil {
		observability.Warnf("recording activity: %v", err)
		return
	}
	if f.hub != nil {
		f.hub.Broadcast(WSMessage{Type: WSTypeActivity, Payload: models.ActivityEntry{
			Timestamp: time.Now().UTC(),
			Message:   message,
		}})
	}
}

// Recent returns the feed, most recent first.
func (f *ActivityFeed) Recent() []models.ActivityEntry {
	return f.store.Activities()
}
