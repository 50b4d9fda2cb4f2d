package handler

import (
	"io"
	"net/http"

	"github.com/cinematic-app/cinematic-api/internal/payload"
)

// CreatePaymentIntent opens a payment intent with the gateway and returns the
// client secret.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	clientSecret, err := h.payments.CreatePaymentIntent(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create payment intent")
		h.writeError(w, http.StatusInternalServerError, "an error occurred while processing the payment intent")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.PaymentIntentResponse{ClientSecret: clientSecret})
}

// ValidateCreditCard runs checksum and format validation on card details.
// Invalid cards are a 200 with valid=false, not an error.
func (h *Handler) ValidateCreditCard(w http.ResponseWriter, r *http.Request) {
	var req payload.CreditCardValidationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result := h.payments.ValidateCreditCard(req.CardNumber, req.ExpiryDate, req.CVV)

	h.writeJSON(w, http.StatusOK, payload.CreditCardValidationResponse{
		Valid:   result.Valid,
		Message: result.Message,
	})
}

// Webhook receives gateway events. The payload signature is checked before
// the event is acknowledged.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.payments.HandleWebhook(body, r.Header.Get("Stripe-Signature")); err != nil {
		h.logger.Error().Err(err).Msg("failed to handle webhook")
		h.writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// PaymentConfig exposes the gateway publishable key to the frontend.
func (h *Handler) PaymentConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, payload.PaymentConfigResponse{
		PublishableKey: h.cfg.Stripe.PublishableKey,
	})
}
