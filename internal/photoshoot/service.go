// Package photoshoot contains the campaign orchestrator: charge credits up
// front, generate one image per slot, and compensate with a refund when any
// step fails. The flow is a best-effort saga, not a transaction; partial
// state stays behind with status failed for diagnosability, only the money
// is always put back.
package photoshoot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"admaker/internal/domain"
	"admaker/internal/generation"
	"admaker/internal/prompts"
)

const editPromptPrefix = "Using the reference image, create a new ultra-realistic image that applies this edit. " +
	"Keep the same professional quality and style. Apply only the requested change.\n\nUser edit request: "

// ImageGenerator produces final image bytes for one slot.
type ImageGenerator interface {
	Generate(ctx context.Context, req generation.Request) ([]byte, error)
}

// PromptComposer builds the prompt for one slot. It never fails.
type PromptComposer interface {
	Compose(ctx context.Context, slot prompts.SlotDef, image []byte, mimeType string) string
}

// Service orchestrates campaign creation, editing and management.
type Service struct {
	repo      domain.CampaignRepository
	ledger    domain.CreditLedger
	blobs     domain.BlobStore
	composer  PromptComposer
	generator ImageGenerator
	logger    zerolog.Logger
}

// NewService wires the orchestrator's collaborators.
func NewService(
	repo domain.CampaignRepository,
	ledger domain.CreditLedger,
	blobs domain.BlobStore,
	composer PromptComposer,
	generator ImageGenerator,
	logger *zerolog.Logger,
) *Service {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		blobs:     blobs,
		composer:  composer,
		generator: generator,
		logger:    l,
	}
}

// CreateCampaignInput is the validated-on-entry request for a new photoshoot.
type CreateCampaignInput struct {
	FileName    string
	Data        []byte
	ShotCount   int
	AspectRatio string
}

// CreateCampaign runs the full pipeline: validate, charge N credits, create
// the campaign, upload the source photo, then generate one ad per slot in the
// fixed slot order. Any failure after the charge refunds the full amount and
// marks the campaign failed. Slots run strictly sequentially; a slot failure
// stops the run without touching later slots.
func (s *Service) CreateCampaign(ctx context.Context, userID string, in CreateCampaignInput) (*domain.Campaign, error) {
	if userID == "" {
		return nil, domain.ErrNotSignedIn
	}

	mimeType, ext, err := validateUpload(in.Data)
	if err != nil {
		return nil, err
	}

	slots, ok := prompts.SlotsForCount(in.ShotCount)
	if !ok {
		if in.ShotCount > 7 {
			return nil, domain.NewValidationError(fmt.Sprintf("%d shots is coming soon, choose 3, 5 or 7 for now", in.ShotCount))
		}
		return nil, domain.NewValidationError("shot count must be 3, 5 or 7")
	}

	aspectRatio := domain.NormalizeAspectRatio(in.AspectRatio)
	n := len(slots)

	// Charge before any row or blob exists, so an insufficient balance
	// needs no compensation at all.
	if _, err := s.ledger.Consume(ctx, userID, n); err != nil {
		return nil, err
	}

	campaign := &domain.Campaign{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   displayName(in.FileName),
		Status: domain.CampaignStatusGenerating,
	}
	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		s.refund(ctx, userID, n)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	sourceKey := fmt.Sprintf("%s/%s/product.%s", userID, campaign.ID, ext)
	if err := s.blobs.Put(ctx, domain.BucketProductPhotos, sourceKey, in.Data, mimeType); err != nil {
		s.fail(ctx, campaign, n)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	photo := &domain.CampaignPhoto{
		ID:          uuid.NewString(),
		CampaignID:  campaign.ID,
		StoragePath: sourceKey,
		OrderIndex:  0,
	}
	if err := s.repo.InsertPhoto(ctx, photo); err != nil {
		s.fail(ctx, campaign, n)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	for i, slot := range slots {
		if err := s.generateSlot(ctx, campaign, slot, in.Data, mimeType, aspectRatio); err != nil {
			s.logger.Error().
				Str("campaign_id", campaign.ID).
				Str("ad_type", string(slot.Type)).
				Int("slot", i+1).
				Int("total", n).
				Err(err).
				Msg("slot failed, aborting campaign")
			s.fail(ctx, campaign, n)
			return nil, err
		}
	}

	if err := s.repo.UpdateCampaignStatus(ctx, campaign.ID, domain.CampaignStatusCompleted); err != nil {
		s.fail(ctx, campaign, n)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	campaign.Status = domain.CampaignStatusCompleted

	return campaign, nil
}

// generateSlot runs one slot: compose, generate, upload, insert. The ad row
// is inserted only after its blob is durably written; an insert failure
// cleans the blob up best-effort so no row can point at missing bytes.
func (s *Service) generateSlot(ctx context.Context, campaign *domain.Campaign, slot prompts.SlotDef, source []byte, mimeType, aspectRatio string) error {
	prompt := s.composer.Compose(ctx, slot, source, mimeType)

	image, err := s.generator.Generate(ctx, generation.Request{
		Image:       source,
		MimeType:    mimeType,
		Prompt:      prompt,
		AspectRatio: aspectRatio,
	})
	if err != nil {
		return err
	}

	adID := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s.png", campaign.UserID, campaign.ID, adID)
	if err := s.blobs.Put(ctx, domain.BucketGeneratedAds, key, image, "image/png"); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	ad := &domain.Ad{
		ID:          adID,
		CampaignID:  campaign.ID,
		StoragePath: key,
		Format:      aspectRatio,
		Status:      domain.AdStatusCompleted,
		AdType:      slot.Type,
	}
	if err := s.repo.InsertAd(ctx, ad); err != nil {
		s.cleanupBlob(ctx, domain.BucketGeneratedAds, key)
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return nil
}

// EditAd generates a new ad from an existing one plus a free-text edit
// instruction. Costs 1 credit, refunded on any failure. The new ad is
// additive; the original is never touched.
func (s *Service) EditAd(ctx context.Context, userID, campaignID, adID, instruction string) (*domain.Ad, error) {
	if userID == "" {
		return nil, domain.ErrNotSignedIn
	}

	trimmed := strings.TrimSpace(instruction)
	if trimmed == "" {
		return nil, domain.NewValidationError("please enter what you want to edit")
	}

	if _, err := s.repo.GetCampaignForUser(ctx, campaignID, userID); err != nil {
		return nil, err
	}

	ad, err := s.repo.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.CampaignID != campaignID || ad.StoragePath == "" {
		return nil, domain.ErrNotFound
	}

	if _, err := s.ledger.Consume(ctx, userID, 1); err != nil {
		return nil, err
	}

	reference, err := s.blobs.Get(ctx, domain.BucketGeneratedAds, ad.StoragePath)
	if err != nil {
		s.refund(ctx, userID, 1)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	image, err := s.generator.Generate(ctx, generation.Request{
		Image:       reference,
		MimeType:    "image/png",
		Prompt:      editPromptPrefix + trimmed,
		AspectRatio: ad.Format,
	})
	if err != nil {
		s.refund(ctx, userID, 1)
		return nil, err
	}

	newID := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s.png", userID, campaignID, newID)
	if err := s.blobs.Put(ctx, domain.BucketGeneratedAds, key, image, "image/png"); err != nil {
		s.refund(ctx, userID, 1)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	newAd := &domain.Ad{
		ID:          newID,
		CampaignID:  campaignID,
		StoragePath: key,
		Format:      ad.Format,
		Status:      domain.AdStatusCompleted,
		AdType:      ad.AdType,
	}
	if err := s.repo.InsertAd(ctx, newAd); err != nil {
		s.cleanupBlob(ctx, domain.BucketGeneratedAds, key)
		s.refund(ctx, userID, 1)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return newAd, nil
}

// DeleteCampaign removes a campaign's blobs from both buckets and then its
// rows. Blob removal is best-effort and runs per bucket concurrently.
func (s *Service) DeleteCampaign(ctx context.Context, userID, campaignID string) error {
	if userID == "" {
		return domain.ErrNotSignedIn
	}

	if _, err := s.repo.GetCampaignForUser(ctx, campaignID, userID); err != nil {
		return err
	}

	photoPaths, err := s.repo.ListPhotoPaths(ctx, campaignID)
	if err != nil {
		return err
	}
	ads, err := s.repo.ListAds(ctx, campaignID)
	if err != nil {
		return err
	}
	var adPaths []string
	for _, ad := range ads {
		if ad.StoragePath != "" {
			adPaths = append(adPaths, ad.StoragePath)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.blobs.Remove(gctx, domain.BucketProductPhotos, photoPaths)
	})
	g.Go(func() error {
		return s.blobs.Remove(gctx, domain.BucketGeneratedAds, adPaths)
	})
	if err := g.Wait(); err != nil {
		// Orphaned blobs cost storage, not correctness.
		s.logger.Warn().
			Str("campaign_id", campaignID).
			Err(err).
			Msg("blob cleanup incomplete during campaign delete")
	}

	return s.repo.DeleteCampaign(ctx, campaignID, userID)
}

// DeleteAd removes a single generated ad and its blob. The caller must own
// the campaign the ad belongs to.
func (s *Service) DeleteAd(ctx context.Context, userID, adID string) error {
	if userID == "" {
		return domain.ErrNotSignedIn
	}

	ad, err := s.repo.GetAd(ctx, adID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetCampaignForUser(ctx, ad.CampaignID, userID); err != nil {
		return err
	}

	if ad.StoragePath != "" {
		s.cleanupBlob(ctx, domain.BucketGeneratedAds, ad.StoragePath)
	}
	return s.repo.DeleteAd(ctx, adID)
}

// ToggleFavorite flips the favorite marker for an ad and returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, userID, adID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotSignedIn
	}

	ad, err := s.repo.GetAd(ctx, adID)
	if err != nil {
		return false, err
	}
	if _, err := s.repo.GetCampaignForUser(ctx, ad.CampaignID, userID); err != nil {
		return false, err
	}

	favorited, err := s.repo.IsFavorite(ctx, userID, adID)
	if err != nil {
		return false, err
	}
	if favorited {
		if err := s.repo.RemoveFavorite(ctx, userID, adID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.repo.AddFavorite(ctx, userID, adID); err != nil {
		return false, err
	}
	return true, nil
}

// FavoriteAll favorites every ad of the user's campaign.
func (s *Service) FavoriteAll(ctx context.Context, userID, campaignID string) error {
	if userID == "" {
		return domain.ErrNotSignedIn
	}
	if _, err := s.repo.GetCampaignForUser(ctx, campaignID, userID); err != nil {
		return err
	}
	return s.repo.FavoriteAll(ctx, userID, campaignID)
}

// ListCampaigns returns the user's campaigns, newest first.
func (s *Service) ListCampaigns(ctx context.Context, userID string, limit, offset int) ([]domain.Campaign, error) {
	if userID == "" {
		return nil, domain.ErrNotSignedIn
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListCampaigns(ctx, userID, limit, offset)
}

// CampaignDetail bundles a campaign with its ads and the caller's favorites.
type CampaignDetail struct {
	Campaign   domain.Campaign
	PhotoPaths []string
	Ads        []domain.Ad
	Favorites  map[string]bool
}

// GetCampaignDetail loads one campaign with its ads and favorite markers.
func (s *Service) GetCampaignDetail(ctx context.Context, userID, campaignID string) (*CampaignDetail, error) {
	if userID == "" {
		return nil, domain.ErrNotSignedIn
	}

	campaign, err := s.repo.GetCampaignForUser(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	photoPaths, err := s.repo.ListPhotoPaths(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	ads, err := s.repo.ListAds(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	favoriteIDs, err := s.repo.ListFavoriteAdIDs(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	favorites := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = true
	}

	return &CampaignDetail{
		Campaign:   *campaign,
		PhotoPaths: photoPaths,
		Ads:        ads,
		Favorites:  favorites,
	}, nil
}

// AdBytes fetches the raw bytes of one generated ad for download or zipping.
func (s *Service) AdBytes(ctx context.Context, userID, adID string) ([]byte, *domain.Ad, error) {
	if userID == "" {
		return nil, nil, domain.ErrNotSignedIn
	}
	ad, err := s.repo.GetAd(ctx, adID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.repo.GetCampaignForUser(ctx, ad.CampaignID, userID); err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Get(ctx, domain.BucketGeneratedAds, ad.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return data, ad, nil
}

// fail is the single compensation path for a charged campaign. The refund
// comes first: the money must be put back even if the status write fails.
// Callers invoke fail at most once per run, at the point the pipeline
// irrecoverably aborts.
func (s *Service) fail(ctx context.Context, campaign *domain.Campaign, amount int) {
	// A canceled request must not cancel the compensation.
	ctx = context.WithoutCancel(ctx)
	s.refund(ctx, campaign.UserID, amount)
	if err := s.repo.UpdateCampaignStatus(ctx, campaign.ID, domain.CampaignStatusFailed); err != nil {
		s.logger.Error().
			Str("campaign_id", campaign.ID).
			Err(err).
			Msg("failed to mark campaign failed")
	}
	campaign.Status = domain.CampaignStatusFailed
}

func (s *Service) refund(ctx context.Context, userID string, amount int) {
	if err := s.ledger.Refund(context.WithoutCancel(ctx), userID, amount); err != nil {
		s.logger.Error().
			Int("amount", amount).
			Err(err).
			Msg("credit refund failed")
	}
}

func (s *Service) cleanupBlob(ctx context.Context, bucket, key string) {
	if err := s.blobs.Remove(ctx, bucket, []string{key}); err != nil {
		s.logger.Warn().
			Str("bucket", bucket).
			Str("key", key).
			Err(err).
			Msg("orphaned blob cleanup failed")
	}
}
