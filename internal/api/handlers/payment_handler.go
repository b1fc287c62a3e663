package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/markdave123-py/Uncouple/internal/services"
)

const paymentNotConfigured = "Payment service not configured"

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type checkoutRequest struct {
	HasFormData bool   `json:"hasFormData"`
	Email       string `json:"email"`
	Origin      string `json:"origin"`
}

// CreateSession opens a hosted checkout and returns its id and URL.
func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if !h.payments.Configured() {
		writeError(w, http.StatusServiceUnavailable, paymentNotConfigured)
		return
	}
	var req checkoutRequest
	if !decode(w, r, &req) {
		return
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = req.Origin
	}
	if origin == "" {
		writeError(w, http.StatusBadRequest, "origin is required")
		return
	}

	sess, err := h.payments.CreateCheckout(r.Context(), uid, strings.TrimSpace(req.Email), origin, req.HasFormData)
	if err != nil {
		log.Printf("payments: create session for %s: %v", uid, err)
		writeError(w, http.StatusBadGateway, "failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID, "url": sess.URL})
}

// Confirm records the outcome of a returned checkout session.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if !h.payments.Configured() {
		writeError(w, http.StatusServiceUnavailable, paymentNotConfigured)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	p, err := h.payments.Confirm(r.Context(), uid, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionMismatch) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("payments: confirm %s for %s: %v", sessionID, uid, err)
		writeError(w, http.StatusBadGateway, "failed to verify checkout session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paid": p.Status == "paid", "payment": p})
}

// Status reports whether the user has paid.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	paid, err := h.payments.HasPaid(r.Context(), uid)
	if err != nil {
		log.Printf("payments: status for %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not load payment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paid": paid})
}

// Config returns what the front end needs to start a checkout.
func (h *PaymentHandler) Config(w http.ResponseWriter, r *http.Request) {
	if !h.payments.Configured() {
		writeError(w, http.StatusServiceUnavailable, paymentNotConfigured)
		return
	}
	writeJSON(w, http.StatusOK, h.payments.Config())
}
