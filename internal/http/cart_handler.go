package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

type CartHandler struct {
	sessions *Sessions
}

func NewCartHandler(sessions *Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code"`
}

type CartViewDTO struct {
	Cart    *domain.Cart `json:"cart"`
	Count   int          `json:"count"`
	Loading bool         `json:"loading"`
}

func (h *CartHandler) view(sess *session) CartViewDTO {
	snapshot := sess.cart.Snapshot()
	return CartViewDTO{
		Cart:    snapshot,
		Count:   snapshot.TotalItemCount(),
		Loading: sess.cart.Loading(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	if _, err := sess.cart.Fetch(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := sess.cart.AddItem(r.Context(), req.ProductID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.view(sess))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.cart.SetQuantity(r.Context(), itemID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	if err := sess.cart.RemoveItem(r.Context(), itemID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	if err := sess.cart.Clear(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.cart.ApplyCoupon(r.Context(), req.Code); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	if err := sess.cart.RemoveCoupon(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CartHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	count, err := sess.cart.RefreshCount(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *CartHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, sess.notify.Active())
}
