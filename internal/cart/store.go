// Package cart owns the authoritative cart snapshot for one user session.
// Every mutation is a backend round trip that replaces the snapshot with the
// server's response; nothing here recomputes totals. Mutations are
// serialized per store, so overlapping edits cannot clobber each other.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RaicesMX/RaicesMX/internal/domain"
	"github.com/RaicesMX/RaicesMX/internal/notify"
)

var (
	ErrQuantityBelowMinimum = errors.New("minimum quantity is 1")
	ErrEmptyCouponCode      = errors.New("coupon code is required")
	ErrConfirmationDeclined = errors.New("destructive action not confirmed")
)

// Backend is what the store needs from the marketplace API.
type Backend interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) (*domain.Cart, string, error)
	RemoveCoupon(ctx context.Context) (*domain.Cart, error)
	CartCount(ctx context.Context) (int, error)
}

// Confirmer answers the confirmation request that gates destructive
// operations. The presentation layer supplies the actual dialog.
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}

// DefaultMinLoading is how long the loading flag stays up at minimum, so a
// fast fetch does not flicker the spinner.
const DefaultMinLoading = 300 * time.Millisecond

type Store struct {
	backend Backend
	confirm Confirmer
	notify  *notify.Notifier
	log     *zap.Logger

	minLoading time.Duration
	now        func() time.Time

	sfg singleflight.Group

	mu             sync.Mutex
	snapshot       *domain.Cart
	fetching       bool
	loadingUntil   time.Time
	applyingCoupon bool
	subscribers    []chan int
}

func NewStore(backend Backend, confirm Confirmer, notifier *notify.Notifier, minLoading time.Duration, log *zap.Logger) *Store {
	if minLoading <= 0 {
		minLoading = DefaultMinLoading
	}
	return &Store{
		backend:    backend,
		confirm:    confirm,
		notify:     notifier,
		log:        log,
		minLoading: minLoading,
		now:        time.Now,
	}
}

// Snapshot returns the last known cart; nil until the first successful fetch.
func (s *Store) Snapshot() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Loading reports whether the UI should show the cart spinner. It stays true
// for the minimum display window even when the fetch finishes sooner.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching || s.now().Before(s.loadingUntil)
}

// ApplyingCoupon reports an in-flight coupon request.
func (s *Store) ApplyingCoupon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyingCoupon
}

// Fetch refreshes the snapshot from the backend. Concurrent calls collapse
// into a single upstream request. On failure the previous snapshot is kept.
func (s *Store) Fetch(ctx context.Context) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do("fetch", func() (interface{}, error) {
		start := s.markFetchStart()
		cart, fetchErr := s.backend.GetCart(ctx)
		s.markFetchDone(start)

		if fetchErr != nil {
			s.notify.Notify("failed to load cart")
			return nil, fetchErr
		}
		s.replaceSnapshot(cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem adds quantity units of a product.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		s.notify.Notify(ErrQuantityBelowMinimum.Error())
		return ErrQuantityBelowMinimum
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.backend.AddItem(ctx, productID, quantity)
	if err != nil {
		s.surface(err, "failed to add item to cart")
		return err
	}
	s.replaceSnapshotLocked(cart)
	s.notify.Notify("item added to cart")
	return nil
}

// SetQuantity changes a line's quantity. Requests below 1 never reach the
// network; the stock pre-check against the last snapshot is advisory only —
// the backend's answer wins when the snapshot is stale.
func (s *Store) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		s.notify.Notify(ErrQuantityBelowMinimum.Error())
		return ErrQuantityBelowMinimum
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.findLineLocked(itemID); line != nil && line.Product.Stock > 0 && quantity > line.Product.Stock {
		msg := fmt.Sprintf("insufficient stock: only %d available", line.Product.Stock)
		s.notify.Notify(msg)
		return fmt.Errorf("%w: only %d available", domain.ErrInsufficientStock, line.Product.Stock)
	}

	cart, err := s.backend.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		s.surface(err, "failed to update quantity")
		return err
	}
	s.replaceSnapshotLocked(cart)
	return nil
}

// RemoveItem deletes a line after confirmation.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	if !s.confirm.Confirm(ctx, "remove item from cart") {
		return ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.backend.RemoveItem(ctx, itemID)
	if err != nil {
		s.surface(err, "failed to remove item")
		return err
	}
	s.replaceSnapshotLocked(cart)
	s.notify.Notify("item removed from cart")
	return nil
}

// Clear empties the cart after confirmation, then re-fetches to reconcile
// since the clear response carries no snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if !s.confirm.Confirm(ctx, "clear the cart") {
		return ErrConfirmationDeclined
	}

	s.mu.Lock()
	if err := s.backend.ClearCart(ctx); err != nil {
		s.mu.Unlock()
		s.surface(err, "failed to clear cart")
		return err
	}
	s.replaceSnapshotLocked(nil)
	s.mu.Unlock()

	s.notify.Notify("cart cleared")
	if _, err := s.Fetch(ctx); err != nil {
		s.log.Warn("post-clear cart refresh failed", zap.Error(err))
	}
	return nil
}

// ApplyCoupon applies a discount code.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		s.notify.Notify(ErrEmptyCouponCode.Error())
		return ErrEmptyCouponCode
	}

	s.mu.Lock()
	s.applyingCoupon = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.applyingCoupon = false
		s.mu.Unlock()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, message, err := s.backend.ApplyCoupon(ctx, code)
	if err != nil {
		s.surface(err, "coupon not valid")
		return err
	}
	s.replaceSnapshotLocked(cart)
	if message != "" {
		s.notify.Notify("coupon applied: " + message)
	} else {
		s.notify.Notify("coupon applied")
	}
	return nil
}

// RemoveCoupon drops the applied coupon. A no-op when none is applied: the
// snapshot is left untouched and no request is made.
func (s *Store) RemoveCoupon(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.HasCoupon() {
		return nil
	}

	cart, err := s.backend.RemoveCoupon(ctx)
	if err != nil {
		s.surface(err, "failed to remove coupon")
		return err
	}
	s.replaceSnapshotLocked(cart)
	s.notify.Notify("coupon removed")
	return nil
}

// Count sums quantities in the last known snapshot.
func (s *Store) Count() int {
	return s.Snapshot().TotalItemCount()
}

// RefreshCount asks the backend for the badge count and publishes it to
// subscribers without pulling the full snapshot.
func (s *Store) RefreshCount(ctx context.Context) (int, error) {
	count, err := s.backend.CartCount(ctx)
	if err != nil {
		return 0, err
	}
	s.publishCount(count)
	return count, nil
}

// Subscribe registers a channel that receives the item count after every
// snapshot change. The header badge listens here.
func (s *Store) Subscribe() <-chan int {
	ch := make(chan int, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) Unsubscribe(ch <-chan int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

func (s *Store) markFetchStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = true
	return s.now()
}

func (s *Store) markFetchDone(start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	s.loadingUntil = start.Add(s.minLoading)
}

func (s *Store) findLineLocked(itemID int64) *domain.CartItem {
	if s.snapshot == nil {
		return nil
	}
	for i := range s.snapshot.Items {
		if s.snapshot.Items[i].ID == itemID {
			return &s.snapshot.Items[i]
		}
	}
	return nil
}

func (s *Store) replaceSnapshot(cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceSnapshotLocked(cart)
}

func (s *Store) replaceSnapshotLocked(cart *domain.Cart) {
	s.snapshot = cart
	count := cart.TotalItemCount()
	for _, sub := range s.subscribers {
		select {
		case sub <- count:
		default:
		}
	}
}

func (s *Store) publishCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscribers {
		select {
		case sub <- count:
		default:
		}
	}
}

// surface converts an operation failure into exactly one user notification,
// preferring the backend's own words when it spoke.
func (s *Store) surface(err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		// The caller redirects to login; a toast would be noise.
		return
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidCoupon):
		s.notify.Notify(err.Error())
	default:
		s.notify.Notify(fallback)
	}
	s.log.Warn("cart operation failed", zap.Error(err))
}
