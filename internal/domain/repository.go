package domain

import "context"

// CampaignRepository defines persistence for campaigns, their source photos
// and their generated ads.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign *Campaign) error
	UpdateCampaignStatus(ctx context.Context, campaignID string, status CampaignStatus) error
	GetCampaignForUser(ctx context.Context, campaignID, userID string) (*Campaign, error)
	ListCampaigns(ctx context.Context, userID string, limit, offset int) ([]Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID, userID string) error

	InsertPhoto(ctx context.Context, photo *CampaignPhoto) error
	ListPhotoPaths(ctx context.Context, campaignID string) ([]string, error)

	InsertAd(ctx context.Context, ad *Ad) error
	GetAd(ctx context.Context, adID string) (*Ad, error)
	ListAds(ctx context.Context, campaignID string) ([]Ad, error)
	DeleteAd(ctx context.Context, adID string) error

	IsFavorite(ctx context.Context, userID, adID string) (bool, error)
	AddFavorite(ctx context.Context, userID, adID string) error
	RemoveFavorite(ctx context.Context, userID, adID string) error
	FavoriteAll(ctx context.Context, userID, campaignID string) error
	ListFavoriteAdIDs(ctx context.Context, userID, campaignID string) ([]string, error)
}

// CreditLedger provides atomic credit mutations. Consume must be race-safe
// under concurrent campaigns for the same user: two concurrent calls must not
// both succeed past the available balance.
type CreditLedger interface {
	// Consume decrements iff balance >= amount and returns the new balance;
	// otherwise it returns ErrInsufficientCredits without mutating state.
	Consume(ctx context.Context, userID string, amount int) (int, error)
	// Refund increments unconditionally. Used only to undo a prior Consume
	// from the same logical operation.
	Refund(ctx context.Context, userID string, amount int) error
	// Add increments. Used by billing fulfillment, not by the pipeline.
	Add(ctx context.Context, userID string, amount int) error
	Balance(ctx context.Context, userID string) (int, error)
}

// BlobStore stores raw image bytes addressed by bucket and key.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Remove deletes the given keys best-effort.
	Remove(ctx context.Context, bucket string, keys []string) error
	// URL returns a browser-resolvable URL for the stored object.
	URL(bucket, key string) string
}
