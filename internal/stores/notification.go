package stores

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filmcounts/filmcounts-gateway/internal/telemetry"
)

// NotificationStore is the in-session notification feed. Unlike the other
// stores it holds no platform state and is deliberately never persisted:
// notifications are ephemeral UI glue and die with the session.
type NotificationStore struct {
	mu    sync.Mutex
	items []Notification
}

// Notification is one feed entry.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Level     string    `json:"level"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func newNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Add pushes a new unread notification onto the front of the feed.
func (n *NotificationStore) Add(title, body, level string) Notification {
	item := Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}
	n.mu.Lock()
	n.items = append([]Notification{item}, n.items...)
	n.mu.Unlock()
	telemetry.StoreActionsTotal.WithLabelValues("notification-store", "add", "success").Inc()
	return item
}

// List returns a copy of the feed, newest first.
func (n *NotificationStore) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Unread counts notifications not yet marked read.
func (n *NotificationStore) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, item := range n.items {
		if !item.Read {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read; false when the id is unknown.
func (n *NotificationStore) MarkRead(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.items {
		if n.items[i].ID == id {
			n.items[i].Read = true
			telemetry.StoreActionsTotal.WithLabelValues("notification-store", "mark_read", "success").Inc()
			return true
		}
	}
	telemetry.StoreActionsTotal.WithLabelValues("notification-store", "mark_read", "failure").Inc()
	return false
}

// MarkAllRead marks the whole feed read.
func (n *NotificationStore) MarkAllRead() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.items {
		n.items[i].Read = true
	}
	telemetry.StoreActionsTotal.WithLabelValues("notification-store", "mark_all_read", "success").Inc()
}

// Dismiss removes one notification; false when the id is unknown.
func (n *NotificationStore) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.items {
		if n.items[i].ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			telemetry.StoreActionsTotal.WithLabelValues("notification-store", "dismiss", "success").Inc()
			return true
		}
	}
	telemetry.StoreActionsTotal.WithLabelValues("notification-store", "dismiss", "failure").Inc()
	return false
}

// Clear empties the feed.
func (n *NotificationStore) Clear() {
	n.mu.Lock()
	n.items = nil
	n.mu.Unlock()
	telemetry.StoreActionsTotal.WithLabelValues("notification-store", "clear", "success").Inc()
}
