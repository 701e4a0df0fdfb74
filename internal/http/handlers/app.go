// Package handlers holds the HTTP endpoints. Handlers translate between the
// wire format and the photoshoot service; no business rules live here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"admaker/internal/billing"
	"admaker/internal/domain"
	"admaker/internal/infra"
	"admaker/internal/middleware"
	"admaker/internal/photoshoot"
)

type App struct {
	Service  *photoshoot.Service
	Ledger   domain.CreditLedger
	Blobs    domain.BlobStore
	Checkout *billing.Client
	Fulfill  *billing.Fulfiller
	Config   *infra.Config
	Logger   zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]string{"error": slug, "message": message})
}

// fail maps service errors onto HTTP responses. Unexpected errors are logged
// with detail and surfaced as a generic 500.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotSignedIn):
		a.error(w, http.StatusUnauthorized, "unauthorized", "not signed in")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found or access denied")
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "insufficient_credits", "not enough credits")
	case domain.IsValidation(err):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	default:
		a.Logger.Error().
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Err(err).
			Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
