package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/api"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	confirmKey contextKey = "confirmed"
)

// AuthMiddleware reads the authenticated user id injected by the edge layer
// and forwards the marketplace session cookie so upstream calls carry the
// caller's credentials. Requests without a user are rejected here; the
// frontend redirects to login on 401.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		if cookie := r.Header.Get("Cookie"); cookie != "" {
			ctx = api.WithCredentials(ctx, cookie)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ConfirmMiddleware records whether the caller answered the confirmation
// dialog affirmatively (confirm=true). Destructive operations check it
// through the Confirmer.
func ConfirmMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmed := r.URL.Query().Get("confirm") == "true"
		ctx := context.WithValue(r.Context(), confirmKey, confirmed)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestConfirmer answers cart.Confirmer from the request context.
type RequestConfirmer struct{}

func (RequestConfirmer) Confirm(ctx context.Context, _ string) bool {
	confirmed, _ := ctx.Value(confirmKey).(bool)
	return confirmed
}

func getUserIDFromContext(ctx context.Context) int64 {
	if userID, ok := ctx.Value(userIDKey).(int64); ok {
		return userID
	}
	return 0
}

// ZapLogger is the request log middleware; same shape as chi's Logger but
// structured.
func ZapLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)))
		})
	}
}
