// Package http is the presentation adapter: chi routes exposing the cart
// store and checkout machine to the frontend.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// NewRouter wires the full route table and middleware stack.
func NewRouter(sessions *Sessions, orders *OrdersHandler, requestTimeout time.Duration, log *zap.Logger) http.Handler {
	cartHandler := NewCartHandler(sessions)
	checkoutHandler := NewCheckoutHandler(sessions)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(ZapLogger(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware)
		r.Use(ConfirmMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/count", cartHandler.GetCount)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Post("/coupon", cartHandler.ApplyCoupon)
			r.Delete("/coupon", cartHandler.RemoveCoupon)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/next", checkoutHandler.Next)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/goto", checkoutHandler.GoTo)
			r.Post("/order", checkoutHandler.CreateOrder)
			r.Post("/capture", checkoutHandler.Capture)
			r.Post("/cancel", checkoutHandler.Cancel)
			r.Post("/error", checkoutHandler.PaymentError)
			r.Get("/return", checkoutHandler.Return)
			r.Post("/reset", checkoutHandler.Reset)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Get("/{order_id}", orders.GetOrder)
			r.Patch("/{order_id}/cancel", orders.CancelOrder)
		})

		r.Get("/notifications", cartHandler.GetNotifications)
	})

	return otelhttp.NewHandler(r, "checkout-session-service")
}
