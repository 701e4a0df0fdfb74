package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"admaker/internal/billing"
	"admaker/internal/domain"
)

const maxWebhookBody = 1 << 20

// BillingWebhook receives signed payment events and credits accounts on
// completed checkouts. It is the only unauthenticated write endpoint; the
// signature is the authentication.
func (a *App) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	if a.Config.BillingSecret == "" {
		a.error(w, http.StatusInternalServerError, "internal", "webhook not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := billing.VerifySignature(payload, signature, a.Config.BillingSecret, billing.DefaultSignatureTolerance, time.Now()); err != nil {
		a.Logger.Warn().Err(err).Msg("webhook signature rejected")
		a.error(w, http.StatusBadRequest, "bad_request", "signature verification failed")
		return
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid event payload")
		return
	}

	if err := a.Fulfill.HandleEvent(r.Context(), event); err != nil {
		if domain.IsValidation(err) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown account")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "fulfillment failed")
		return
	}

	a.json(w, http.StatusOK, map[string]bool{"received": true})
}
