package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"admaker/internal/domain"
	"admaker/internal/photoshoot"
	"admaker/pkg/zip"
)

type campaignResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type adResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	AdType    string    `json:"ad_type,omitempty"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
}

type campaignDetailResponse struct {
	Campaign  campaignResponse `json:"campaign"`
	PhotoURLs []string         `json:"photo_urls"`
	Ads       []adResponse     `json:"ads"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

// CampaignsCreate accepts a multipart form with the product photo and shoot
// options and runs the whole generation pipeline before responding.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	if err := r.ParseMultipartForm(photoshoot.MaxUploadSize + 1<<20); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "photo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, photoshoot.MaxUploadSize+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read photo")
		return
	}

	shotCount, _ := strconv.Atoi(r.FormValue("shot_count"))
	if shotCount == 0 {
		shotCount = 3
	}

	campaign, err := a.Service.CreateCampaign(r.Context(), userID, photoshoot.CreateCampaignInput{
		FileName:    header.Filename,
		Data:        data,
		ShotCount:   shotCount,
		AspectRatio: r.FormValue("aspect_ratio"),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, toCampaignResponse(*campaign))
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	campaigns, err := a.Service.ListCampaigns(r.Context(), userID, limit, offset)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignResponse(c))
	}
	a.json(w, http.StatusOK, map[string]any{"campaigns": out})
}

func (a *App) CampaignDetail(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	detail, err := a.Service.GetCampaignDetail(r.Context(), userID, chi.URLParam(r, "campaign_id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	photoURLs := make([]string, 0, len(detail.PhotoPaths))
	for _, p := range detail.PhotoPaths {
		photoURLs = append(photoURLs, a.Blobs.URL(domain.BucketProductPhotos, p))
	}

	ads := make([]adResponse, 0, len(detail.Ads))
	for _, ad := range detail.Ads {
		ads = append(ads, adResponse{
			ID:        ad.ID,
			URL:       a.Blobs.URL(domain.BucketGeneratedAds, ad.StoragePath),
			Format:    ad.Format,
			Status:    string(ad.Status),
			AdType:    string(ad.AdType),
			Favorite:  detail.Favorites[ad.ID],
			CreatedAt: ad.CreatedAt,
		})
	}

	a.json(w, http.StatusOK, campaignDetailResponse{
		Campaign:  toCampaignResponse(detail.Campaign),
		PhotoURLs: photoURLs,
		Ads:       ads,
	})
}

func (a *App) CampaignDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	if err := a.Service.DeleteCampaign(r.Context(), userID, chi.URLParam(r, "campaign_id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CampaignDownload streams all of a campaign's generated ads as one zip.
func (a *App) CampaignDownload(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	campaignID := chi.URLParam(r, "campaign_id")
	detail, err := a.Service.GetCampaignDetail(r.Context(), userID, campaignID)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	var assets []zip.Asset
	for i, ad := range detail.Ads {
		data, _, err := a.Service.AdBytes(r.Context(), userID, ad.ID)
		if err != nil {
			a.Logger.Warn().
				Str("ad_id", ad.ID).
				Err(err).
				Msg("skipping ad missing from storage during download")
			continue
		}
		name := string(ad.AdType)
		if name == "" {
			name = fmt.Sprintf("ad-%d", i+1)
		}
		assets = append(assets, zip.Asset{
			Filename: fmt.Sprintf("%s-%s.png", name, ad.ID[:8]),
			MIME:     "image/png",
			Data:     data,
		})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no downloadable ads in this campaign")
		return
	}

	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", detail.Campaign.Name+".zip"))
	_, _ = w.Write(archive)
}
