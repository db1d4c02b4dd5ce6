package http

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/cart"
	"github.com/RaicesMX/RaicesMX/internal/checkout"
	"github.com/RaicesMX/RaicesMX/internal/notify"
	"github.com/RaicesMX/RaicesMX/internal/progress"
)

// Backend is everything a session needs from the marketplace client.
type Backend interface {
	cart.Backend
	checkout.OrdersBackend
}

// session is one user's live checkout state: their cart store, their state
// machine and their notification queue. Lifecycle is the application
// session — created on first touch, restored from persisted progress.
type session struct {
	cart     *cart.Store
	checkout *checkout.Machine
	notify   *notify.Notifier
}

type SessionConfig struct {
	MinLoadingDuration time.Duration
	NotificationTTL    time.Duration
}

type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*session

	client   Backend
	progress progress.Store
	cfg      SessionConfig
	log      *zap.Logger
}

func NewSessions(client Backend, store progress.Store, cfg SessionConfig, log *zap.Logger) *Sessions {
	return &Sessions{
		sessions: make(map[int64]*session),
		client:   client,
		progress: store,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Sessions) get(ctx context.Context, userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[userID]; ok {
		return existing
	}

	notifier := notify.New(s.cfg.NotificationTTL, s.log)
	store := cart.NewStore(s.client, RequestConfirmer{}, notifier, s.cfg.MinLoadingDuration, s.log)
	machine := checkout.NewMachine(userID, store, s.client, s.progress, notifier, s.log)
	machine.Restore(ctx)

	created := &session{cart: store, checkout: machine, notify: notifier}
	s.sessions[userID] = created
	s.log.Info("checkout session created", zap.Int64("user_id", userID))
	return created
}
