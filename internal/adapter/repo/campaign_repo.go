package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"admaker/internal/domain"
)

// CampaignRepositoryPG implements domain.CampaignRepository.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign repository backed by PostgreSQL.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// CreateCampaign inserts a new campaign record.
func (r *CampaignRepositoryPG) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `
INSERT INTO campaigns (id, user_id, name, status)
VALUES ($1, $2, $3, $4);
`
	_, err := r.pool.Exec(ctx, query, campaign.ID, campaign.UserID, campaign.Name, campaign.Status)
	return err
}

// UpdateCampaignStatus transitions a campaign to the given status.
func (r *CampaignRepositoryPG) UpdateCampaignStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) error {
	query := `
UPDATE campaigns
SET status = $2,
    updated_at = NOW()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, campaignID, status)
	return err
}

// GetCampaignForUser fetches a campaign only if it belongs to the given user.
func (r *CampaignRepositoryPG) GetCampaignForUser(ctx context.Context, campaignID, userID string) (*domain.Campaign, error) {
	query := `
SELECT id, user_id, name, status, created_at, updated_at
FROM campaigns
WHERE id = $1 AND user_id = $2;
`
	row := r.pool.QueryRow(ctx, query, campaignID, userID)
	var c domain.Campaign
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns the user's campaigns, newest first.
func (r *CampaignRepositoryPG) ListCampaigns(ctx context.Context, userID string, limit, offset int) ([]domain.Campaign, error) {
	query := `
SELECT id, user_id, name, status, created_at, updated_at
FROM campaigns
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCampaign removes a campaign owned by the user. Photos, ads and
// favorites are removed by cascade.
func (r *CampaignRepositoryPG) DeleteCampaign(ctx context.Context, campaignID, userID string) error {
	query := `DELETE FROM campaigns WHERE id = $1 AND user_id = $2;`
	tag, err := r.pool.Exec(ctx, query, campaignID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertPhoto records an uploaded source photo.
func (r *CampaignRepositoryPG) InsertPhoto(ctx context.Context, photo *domain.CampaignPhoto) error {
	query := `
INSERT INTO campaign_photos (id, campaign_id, storage_path, order_index)
VALUES ($1, $2, $3, $4);
`
	_, err := r.pool.Exec(ctx, query, photo.ID, photo.CampaignID, photo.StoragePath, photo.OrderIndex)
	return err
}

// ListPhotoPaths returns the storage paths of a campaign's source photos.
func (r *CampaignRepositoryPG) ListPhotoPaths(ctx context.Context, campaignID string) ([]string, error) {
	query := `
SELECT storage_path
FROM campaign_photos
WHERE campaign_id = $1
ORDER BY order_index;
`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// InsertAd records a generated ad.
func (r *CampaignRepositoryPG) InsertAd(ctx context.Context, ad *domain.Ad) error {
	query := `
INSERT INTO ads (id, campaign_id, storage_path, format, status, ad_type)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, query,
		ad.ID,
		ad.CampaignID,
		ad.StoragePath,
		ad.Format,
		ad.Status,
		nullableAdType(ad.AdType),
	)
	return err
}

// GetAd fetches a single ad by id.
func (r *CampaignRepositoryPG) GetAd(ctx context.Context, adID string) (*domain.Ad, error) {
	query := `
SELECT id, campaign_id, storage_path, format, status, ad_type, created_at
FROM ads
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, adID)
	return scanAd(row)
}

// ListAds returns a campaign's generated ads, oldest first so the slot order
// is preserved in listings.
func (r *CampaignRepositoryPG) ListAds(ctx context.Context, campaignID string) ([]domain.Ad, error) {
	query := `
SELECT id, campaign_id, storage_path, format, status, ad_type, created_at
FROM ads
WHERE campaign_id = $1
ORDER BY created_at;
`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ad)
	}
	return out, rows.Err()
}

// DeleteAd removes a single ad row.
func (r *CampaignRepositoryPG) DeleteAd(ctx context.Context, adID string) error {
	query := `DELETE FROM ads WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, query, adID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsFavorite reports whether the user has favorited the ad.
func (r *CampaignRepositoryPG) IsFavorite(ctx context.Context, userID, adID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ad_favorites WHERE user_id = $1 AND ad_id = $2);`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, adID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// AddFavorite marks an ad as favorited. Already-favorited is a no-op.
func (r *CampaignRepositoryPG) AddFavorite(ctx context.Context, userID, adID string) error {
	query := `
INSERT INTO ad_favorites (user_id, ad_id)
VALUES ($1, $2)
ON CONFLICT (user_id, ad_id) DO NOTHING;
`
	_, err := r.pool.Exec(ctx, query, userID, adID)
	return err
}

// RemoveFavorite clears the favorite marker.
func (r *CampaignRepositoryPG) RemoveFavorite(ctx context.Context, userID, adID string) error {
	query := `DELETE FROM ad_favorites WHERE user_id = $1 AND ad_id = $2;`
	_, err := r.pool.Exec(ctx, query, userID, adID)
	return err
}

// FavoriteAll favorites every ad of a campaign for the user, skipping ads
// already favorited.
func (r *CampaignRepositoryPG) FavoriteAll(ctx context.Context, userID, campaignID string) error {
	query := `
INSERT INTO ad_favorites (user_id, ad_id)
SELECT $1, id FROM ads WHERE campaign_id = $2
ON CONFLICT (user_id, ad_id) DO NOTHING;
`
	_, err := r.pool.Exec(ctx, query, userID, campaignID)
	return err
}

// ListFavoriteAdIDs returns the ids of the user's favorited ads in a campaign.
func (r *CampaignRepositoryPG) ListFavoriteAdIDs(ctx context.Context, userID, campaignID string) ([]string, error) {
	query := `
SELECT f.ad_id
FROM ad_favorites f
JOIN ads a ON a.id = f.ad_id
WHERE f.user_id = $1 AND a.campaign_id = $2;
`
	rows, err := r.pool.Query(ctx, query, userID, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanAd(row pgx.Row) (*domain.Ad, error) {
	var ad domain.Ad
	var adType *string
	if err := row.Scan(
		&ad.ID,
		&ad.CampaignID,
		&ad.StoragePath,
		&ad.Format,
		&ad.Status,
		&adType,
		&ad.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if adType != nil {
		ad.AdType = domain.AdType(*adType)
	}
	return &ad, nil
}

// nullableAdType keeps ad_type NULL for rows created before concept labels.
func nullableAdType(t domain.AdType) *string {
	if t == "" {
		return nil
	}
	s := string(t)
	return &s
}
