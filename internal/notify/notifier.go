// Package notify holds transient, user-facing messages. Messages are not an
// error log: they expire on their own and are never deduplicated — each call
// produces an independent notification with its own dismissal time.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL matches the fixed display window of the original toast.
const DefaultTTL = 3 * time.Second

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Notification
	log    *zap.Logger

	now func() time.Time
}

func New(ttl time.Duration, log *zap.Logger) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		ttl: ttl,
		log: log,
		now: time.Now,
	}
}

// Notify enqueues a message for display.
func (n *Notifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.active = append(n.active, Notification{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	})
	n.log.Debug("notification enqueued", zap.String("message", message))
}

// Active returns the messages still within their display window, pruning
// the rest.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	kept := n.active[:0]
	for _, notification := range n.active {
		if notification.ExpiresAt.After(now) {
			kept = append(kept, notification)
		}
	}
	n.active = kept

	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}
