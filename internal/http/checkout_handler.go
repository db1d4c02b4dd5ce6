package http

import (
	"encoding/json"
	"net/http"

	"github.com/RaicesMX/RaicesMX/internal/cart"
	"github.com/RaicesMX/RaicesMX/internal/domain"
)

type CheckoutHandler struct {
	sessions *Sessions
}

func NewCheckoutHandler(sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type CheckoutViewDTO struct {
	Step            int                    `json:"step"`
	StepLabel       string                 `json:"step_label"`
	ProgressPercent float64                `json:"progress_percent"`
	Shipping        domain.ShippingDetails `json:"shipping"`
	Cart            *domain.Cart           `json:"cart"`
	Capturing       bool                   `json:"capturing"`
	ConfirmedOrder  *domain.Order          `json:"confirmed_order,omitempty"`
}

type GoToStepRequestDTO struct {
	Step int `json:"step"`
}

type CreateOrderResponseDTO struct {
	OrderID    int64  `json:"order_id"`
	ApprovalID string `json:"approval_id"`
	ApproveURL string `json:"approve_url"`
}

type CaptureRequestDTO struct {
	ApprovalID string `json:"approval_id"`
}

func (h *CheckoutHandler) view(sess *session) CheckoutViewDTO {
	step := sess.checkout.Step()
	return CheckoutViewDTO{
		Step:            int(step),
		StepLabel:       step.Label(),
		ProgressPercent: step.ProgressPercent(),
		Shipping:        sess.checkout.Shipping(),
		Cart:            sess.cart.Snapshot(),
		Capturing:       sess.checkout.Capturing(),
		ConfirmedOrder:  sess.checkout.Confirmed(),
	}
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, h.view(sess))
}

// Next advances the flow. When leaving the shipping step the request body
// carries the form, which replaces the machine's copy before validation.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	if r.ContentLength > 0 {
		var details domain.ShippingDetails
		if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
		sess.checkout.SetShipping(details)
	}

	if err := sess.checkout.Next(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	if err := sess.checkout.Back(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CheckoutHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	var req GoToStepRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.checkout.GoTo(r.Context(), domain.Step(req.Step)); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

// CreateOrder is the widget's create hook and the first leg of the redirect
// flow: the frontend either hands the approval id to the in-page widget or
// navigates to the approve URL.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	pending, err := sess.checkout.CreateOrder(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{
		OrderID:    pending.Order.ID,
		ApprovalID: pending.ApprovalID,
		ApproveURL: pending.ApproveURL,
	})
}

// Capture is the widget's approve hook.
func (h *CheckoutHandler) Capture(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	var req CaptureRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.checkout.Approve(r.Context(), req.ApprovalID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	sess.checkout.Cancel()
	respondJSON(w, http.StatusOK, h.view(sess))
}

func (h *CheckoutHandler) PaymentError(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))
	sess.checkout.HandleError()
	respondJSON(w, http.StatusOK, h.view(sess))
}

// Return handles the browser coming back from the payment approver. The
// token is consumed immediately and the redirect strips it from the visible
// URL so a refresh cannot trigger a second capture.
func (h *CheckoutHandler) Return(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	token := r.URL.Query().Get("token")
	if token != "" {
		// Capture outcome decides the step; either way the user lands on
		// the tokenless checkout URL.
		_ = sess.checkout.ResumeFromRedirect(r.Context(), token)
	}
	http.Redirect(w, r, "/checkout", http.StatusSeeOther)
}

// Reset starts a new purchase, gated on confirmation like the destructive
// cart operations.
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(r.Context(), getUserIDFromContext(r.Context()))

	if !(RequestConfirmer{}).Confirm(r.Context(), "start a new purchase") {
		handleServiceError(w, cart.ErrConfirmationDeclined)
		return
	}
	sess.checkout.Reset(r.Context())
	respondJSON(w, http.StatusOK, h.view(sess))
}
