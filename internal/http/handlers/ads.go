package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admaker/internal/domain"
)

type adEditRequest struct {
	Prompt string `json:"prompt"`
}

// AdEdit generates a new ad from an existing one plus an edit instruction.
// Costs 1 credit.
func (a *App) AdEdit(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req adEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	ad, err := a.Service.EditAd(r.Context(), userID, chi.URLParam(r, "campaign_id"), chi.URLParam(r, "ad_id"), req.Prompt)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, adResponse{
		ID:        ad.ID,
		URL:       a.Blobs.URL(domain.BucketGeneratedAds, ad.StoragePath),
		Format:    ad.Format,
		Status:    string(ad.Status),
		AdType:    string(ad.AdType),
		CreatedAt: ad.CreatedAt,
	})
}

// AdFavorite toggles the favorite marker and reports the new state.
func (a *App) AdFavorite(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	favorited, err := a.Service.ToggleFavorite(r.Context(), userID, chi.URLParam(r, "ad_id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

// AdsFavoriteAll favorites every ad in a campaign.
func (a *App) AdsFavoriteAll(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	if err := a.Service.FavoriteAll(r.Context(), userID, chi.URLParam(r, "campaign_id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	if err := a.Service.DeleteAd(r.Context(), userID, chi.URLParam(r, "ad_id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
