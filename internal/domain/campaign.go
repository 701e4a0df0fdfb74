package domain

import "time"

// CampaignStatus enumerates campaign lifecycle states. A campaign is created
// in StatusGenerating and only ever moves to StatusCompleted or StatusFailed.
type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusGenerating CampaignStatus = "generating"
	CampaignStatusCompleted  CampaignStatus = "completed"
	CampaignStatusFailed     CampaignStatus = "failed"
)

// AdStatus enumerates generated ad states.
type AdStatus string

const (
	AdStatusPending   AdStatus = "pending"
	AdStatusCompleted AdStatus = "completed"
	AdStatusFailed    AdStatus = "failed"
)

// AdType labels the photo concept a generated ad was produced for. Older rows
// predate the concept labels, so the value may be empty.
type AdType string

const (
	AdTypeStudio     AdType = "studio"
	AdTypeStudio2    AdType = "studio_2"
	AdTypeContextual AdType = "contextual"
	AdTypeLifestyle  AdType = "lifestyle"
	AdTypeCreative   AdType = "creative"
	AdTypeUGCStyler  AdType = "ugc_styler"
	AdTypeCinematic  AdType = "cinematic"
)

// Campaign is one end-to-end photoshoot request: one source photo producing
// N generated ads.
type Campaign struct {
	ID        string
	UserID    string
	Name      string
	Status    CampaignStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CampaignPhoto is an uploaded reference image. Immutable once created;
// removed only when the owning campaign is deleted.
type CampaignPhoto struct {
	ID          string
	CampaignID  string
	StoragePath string
	OrderIndex  int
	CreatedAt   time.Time
}

// Ad is a single generated image plus its metadata.
type Ad struct {
	ID          string
	CampaignID  string
	StoragePath string
	Format      string // aspect ratio the image was generated with
	Status      AdStatus
	AdType      AdType
	CreatedAt   time.Time
}

// Storage bucket names. Source photos and generated ads live in separate
// namespaces.
const (
	BucketProductPhotos = "product-photos"
	BucketGeneratedAds  = "generated-ads"
)
