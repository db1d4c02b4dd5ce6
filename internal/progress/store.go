// Package progress persists in-flight checkout state so a reload or the
// PayPal redirect round trip does not lose the user's place.
package progress

import (
	"context"
	"errors"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

// Progress is the single persisted record: the current step plus whatever
// the user has typed into the shipping form.
type Progress struct {
	Step            domain.Step            `json:"pasoActual"`
	ShippingDetails domain.ShippingDetails `json:"datosEnvio"`
}

// Default is the state of a fresh checkout session.
func Default() Progress {
	return Progress{
		Step:            domain.StepCart,
		ShippingDetails: domain.NewShippingDetails(),
	}
}

var ErrNotFound = errors.New("no saved progress")

// Store is the persistence bridge. Load must return ErrNotFound when no
// record exists, and must fall back to Default (not fail) when the stored
// record cannot be parsed.
type Store interface {
	Load(ctx context.Context, userID int64) (Progress, error)
	Save(ctx context.Context, userID int64, p Progress) error
	Clear(ctx context.Context, userID int64) error
}
