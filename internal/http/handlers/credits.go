package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"admaker/internal/billing"
	"admaker/internal/domain"
)

func (a *App) CreditsBalance(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	balance, err := a.Ledger.Balance(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int{"credits": balance})
}

type checkoutRequest struct {
	Pack string `json:"pack"`
}

// CheckoutCreate starts a hosted checkout for a credit pack and returns the
// redirect URL.
func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "billing_unavailable", "billing is not configured")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	pack, ok := domain.GetCreditPack(req.Pack)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid pack")
		return
	}

	base := strings.TrimRight(a.Config.AppBaseURL, "/")
	session, err := a.Checkout.CreateSession(r.Context(), billing.CheckoutParams{
		UserID:     userID,
		Pack:       pack,
		SuccessURL: base + "/settings/credits?success=1",
		CancelURL:  base + "/settings/credits",
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusOK, map[string]string{"url": session.URL})
}
