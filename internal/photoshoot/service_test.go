package photoshoot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"admaker/internal/domain"
	"admaker/internal/generation"
	"admaker/internal/prompts"
)

// jpegFixture is a minimal payload with a valid JPEG signature.
func jpegFixture(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

type memLedger struct {
	mu       sync.Mutex
	balances map[string]int
	consumes int
	refunds  int
}

func newMemLedger(userID string, balance int) *memLedger {
	return &memLedger{balances: map[string]int{userID: balance}}
}

func (l *memLedger) Consume(ctx context.Context, userID string, amount int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] < amount {
		return 0, domain.ErrInsufficientCredits
	}
	l.consumes++
	l.balances[userID] -= amount
	return l.balances[userID], nil
}

func (l *memLedger) Refund(ctx context.Context, userID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refunds++
	l.balances[userID] += amount
	return nil
}

func (l *memLedger) Add(ctx context.Context, userID string, amount int) error {
	return l.Refund(ctx, userID, amount)
}

func (l *memLedger) Balance(ctx context.Context, userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID], nil
}

type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	photos    []domain.CampaignPhoto
	ads       []domain.Ad
	favorites map[string]bool

	insertAdErr func(ad *domain.Ad) error
}

func newMemRepo() *memRepo {
	return &memRepo{
		campaigns: make(map[string]*domain.Campaign),
		favorites: make(map[string]bool),
	}
}

func (r *memRepo) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *memRepo) UpdateCampaignStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

func (r *memRepo) GetCampaignForUser(ctx context.Context, campaignID, userID string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) ListCampaigns(ctx context.Context, userID string, limit, offset int) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.campaigns {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteCampaign(ctx context.Context, campaignID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.campaigns, campaignID)
	return nil
}

func (r *memRepo) InsertPhoto(ctx context.Context, photo *domain.CampaignPhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos = append(r.photos, *photo)
	return nil
}

func (r *memRepo) ListPhotoPaths(ctx context.Context, campaignID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, p := range r.photos {
		if p.CampaignID == campaignID {
			out = append(out, p.StoragePath)
		}
	}
	return out, nil
}

func (r *memRepo) InsertAd(ctx context.Context, ad *domain.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertAdErr != nil {
		if err := r.insertAdErr(ad); err != nil {
			return err
		}
	}
	r.ads = append(r.ads, *ad)
	return nil
}

func (r *memRepo) GetAd(ctx context.Context, adID string) (*domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			cp := ad
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) ListAds(ctx context.Context, campaignID string) ([]domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ad
	for _, ad := range r.ads {
		if ad.CampaignID == campaignID {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteAd(ctx context.Context, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ad := range r.ads {
		if ad.ID == adID {
			r.ads = append(r.ads[:i], r.ads[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memRepo) favKey(userID, adID string) string { return userID + "/" + adID }

func (r *memRepo) IsFavorite(ctx context.Context, userID, adID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.favorites[r.favKey(userID, adID)], nil
}

func (r *memRepo) AddFavorite(ctx context.Context, userID, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites[r.favKey(userID, adID)] = true
	return nil
}

func (r *memRepo) RemoveFavorite(ctx context.Context, userID, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, r.favKey(userID, adID))
	return nil
}

func (r *memRepo) FavoriteAll(ctx context.Context, userID, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.CampaignID == campaignID {
			r.favorites[r.favKey(userID, ad.ID)] = true
		}
	}
	return nil
}

func (r *memRepo) ListFavoriteAdIDs(ctx context.Context, userID, campaignID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ad := range r.ads {
		if ad.CampaignID == campaignID && r.favorites[r.favKey(userID, ad.ID)] {
			out = append(out, ad.ID)
		}
	}
	return out, nil
}

type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  func(bucket, key string) error
	getErr  error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte)}
}

func (b *memBlobs) objKey(bucket, key string) string { return bucket + "/" + key }

func (b *memBlobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		if err := b.putErr(bucket, key); err != nil {
			return err
		}
	}
	b.objects[b.objKey(bucket, key)] = append([]byte(nil), data...)
	return nil
}

func (b *memBlobs) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	data, ok := b.objects[b.objKey(bucket, key)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (b *memBlobs) Remove(ctx context.Context, bucket string, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, key := range keys {
		delete(b.objects, b.objKey(bucket, key))
	}
	return nil
}

func (b *memBlobs) URL(bucket, key string) string {
	return "http://blobs.test/" + bucket + "/" + key
}

// fakeComposer skips the vision call entirely; the prompt just names the slot.
type fakeComposer struct{}

func (fakeComposer) Compose(ctx context.Context, slot prompts.SlotDef, image []byte, mimeType string) string {
	return "prompt for " + string(slot.Type)
}

// fakeGenerator succeeds with fixed bytes until failAfter calls have passed.
type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	failAt    int // 1-based call index to fail at, 0 = never
	lastReq   generation.Request
	requested []string
}

func (g *fakeGenerator) Generate(ctx context.Context, req generation.Request) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastReq = req
	g.requested = append(g.requested, req.Prompt)
	if g.failAt != 0 && g.calls >= g.failAt {
		return nil, domain.ErrGenerationFailed
	}
	return []byte("png-bytes"), nil
}

type fixture struct {
	svc    *Service
	repo   *memRepo
	ledger *memLedger
	blobs  *memBlobs
	gen    *fakeGenerator
}

func newFixture(balance int) *fixture {
	repo := newMemRepo()
	ledger := newMemLedger("user-1", balance)
	blobs := newMemBlobs()
	gen := &fakeGenerator{}
	svc := NewService(repo, ledger, blobs, fakeComposer{}, gen, nil)
	return &fixture{svc: svc, repo: repo, ledger: ledger, blobs: blobs, gen: gen}
}

func TestCreateCampaignHappyPath(t *testing.T) {
	f := newFixture(10)

	campaign, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
		FileName:    "espresso-maker.jpg",
		Data:        jpegFixture(2 << 20),
		ShotCount:   3,
		AspectRatio: "1:1",
	})
	if err != nil {
		t.Fatalf("CreateCampaign() error = %v", err)
	}
	if campaign.Status != domain.CampaignStatusCompleted {
		t.Fatalf("status = %s, want completed", campaign.Status)
	}
	if campaign.Name != "Espresso Maker" {
		t.Errorf("name = %q, want %q", campaign.Name, "Espresso Maker")
	}

	if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != 7 {
		t.Errorf("balance = %d, want 7", balance)
	}

	ads, _ := f.repo.ListAds(context.Background(), campaign.ID)
	if len(ads) != 3 {
		t.Fatalf("ads = %d, want 3", len(ads))
	}
	wantOrder := []domain.AdType{domain.AdTypeStudio, domain.AdTypeStudio2, domain.AdTypeContextual}
	for i, ad := range ads {
		if ad.AdType != wantOrder[i] {
			t.Errorf("ad[%d].AdType = %s, want %s", i, ad.AdType, wantOrder[i])
		}
		if ad.Format != "1:1" {
			t.Errorf("ad[%d].Format = %s, want 1:1", i, ad.Format)
		}
		if ad.Status != domain.AdStatusCompleted {
			t.Errorf("ad[%d].Status = %s, want completed", i, ad.Status)
		}
		if _, err := f.blobs.Get(context.Background(), domain.BucketGeneratedAds, ad.StoragePath); err != nil {
			t.Errorf("ad[%d] blob missing at %s", i, ad.StoragePath)
		}
	}

	photos, _ := f.repo.ListPhotoPaths(context.Background(), campaign.ID)
	if len(photos) != 1 {
		t.Fatalf("photos = %d, want 1", len(photos))
	}
	if _, err := f.blobs.Get(context.Background(), domain.BucketProductPhotos, photos[0]); err != nil {
		t.Errorf("source photo blob missing at %s", photos[0])
	}
}

func TestCreateCampaignSlotOrdering(t *testing.T) {
	tests := []struct {
		shotCount int
		want      []domain.AdType
	}{
		{3, []domain.AdType{domain.AdTypeStudio, domain.AdTypeStudio2, domain.AdTypeContextual}},
		{5, []domain.AdType{domain.AdTypeStudio, domain.AdTypeStudio2, domain.AdTypeContextual, domain.AdTypeLifestyle, domain.AdTypeCreative}},
		{7, []domain.AdType{domain.AdTypeStudio, domain.AdTypeStudio2, domain.AdTypeContextual, domain.AdTypeLifestyle, domain.AdTypeCreative, domain.AdTypeUGCStyler, domain.AdTypeCinematic}},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d shots", tc.shotCount), func(t *testing.T) {
			f := newFixture(20)
			campaign, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
				FileName:  "product.png",
				Data:      append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...),
				ShotCount: tc.shotCount,
			})
			if err != nil {
				t.Fatalf("CreateCampaign() error = %v", err)
			}
			ads, _ := f.repo.ListAds(context.Background(), campaign.ID)
			if len(ads) != len(tc.want) {
				t.Fatalf("ads = %d, want %d", len(ads), len(tc.want))
			}
			for i, ad := range ads {
				if ad.AdType != tc.want[i] {
					t.Errorf("ad[%d].AdType = %s, want %s", i, ad.AdType, tc.want[i])
				}
				if ad.Format != domain.DefaultAspectRatio {
					t.Errorf("ad[%d].Format = %s, want default %s", i, ad.Format, domain.DefaultAspectRatio)
				}
			}
		})
	}
}

func TestCreateCampaignMidSlotFailureRefundsAll(t *testing.T) {
	f := newFixture(10)
	f.gen.failAt = 2 // slot 2 of 3

	_, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
		FileName:  "mug.jpg",
		Data:      jpegFixture(1024),
		ShotCount: 3,
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("CreateCampaign() error = %v, want ErrGenerationFailed", err)
	}

	if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != 10 {
		t.Errorf("balance = %d, want 10 (full refund)", balance)
	}
	if f.ledger.refunds != 1 {
		t.Errorf("refunds = %d, want exactly 1", f.ledger.refunds)
	}

	var failed *domain.Campaign
	for _, c := range f.repo.campaigns {
		failed = c
	}
	if failed == nil {
		t.Fatal("campaign row missing, partial state should remain for diagnosability")
	}
	if failed.Status != domain.CampaignStatusFailed {
		t.Errorf("status = %s, want failed", failed.Status)
	}

	ads, _ := f.repo.ListAds(context.Background(), failed.ID)
	if len(ads) != 1 {
		t.Fatalf("ads = %d, want 1 (only the slot before the failure)", len(ads))
	}
	if ads[0].AdType != domain.AdTypeStudio {
		t.Errorf("surviving ad type = %s, want studio", ads[0].AdType)
	}
}

func TestCreateCampaignInsufficientCredits(t *testing.T) {
	f := newFixture(2)

	_, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
		FileName:  "mug.jpg",
		Data:      jpegFixture(1024),
		ShotCount: 3,
	})
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("CreateCampaign() error = %v, want ErrInsufficientCredits", err)
	}

	if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != 2 {
		t.Errorf("balance = %d, want 2 (unchanged)", balance)
	}
	if len(f.repo.campaigns) != 0 {
		t.Errorf("campaigns = %d, want 0 (nothing written before the charge)", len(f.repo.campaigns))
	}
	if len(f.blobs.objects) != 0 {
		t.Errorf("blobs = %d, want 0", len(f.blobs.objects))
	}
}

func TestCreateCampaignRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input CreateCampaignInput
	}{
		{"empty file", CreateCampaignInput{FileName: "a.jpg", ShotCount: 3}},
		{"oversized file", CreateCampaignInput{FileName: "a.jpg", Data: jpegFixture(MaxUploadSize + 1), ShotCount: 3}},
		{"not an image", CreateCampaignInput{FileName: "a.jpg", Data: bytes.Repeat([]byte("x"), 128), ShotCount: 3}},
		{"unsupported shot count", CreateCampaignInput{FileName: "a.jpg", Data: jpegFixture(1024), ShotCount: 4}},
		{"coming soon shot count", CreateCampaignInput{FileName: "a.jpg", Data: jpegFixture(1024), ShotCount: 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(100)
			_, err := f.svc.CreateCampaign(context.Background(), "user-1", tc.input)
			if !domain.IsValidation(err) {
				t.Fatalf("CreateCampaign() error = %v, want validation error", err)
			}
			if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != 100 {
				t.Errorf("balance = %d, want 100 (no charge on validation failure)", balance)
			}
		})
	}
}

func TestCreateCampaignInsertFailureCleansBlob(t *testing.T) {
	f := newFixture(10)
	f.repo.insertAdErr = func(ad *domain.Ad) error {
		return errors.New("insert blew up")
	}

	_, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
		FileName:  "mug.jpg",
		Data:      jpegFixture(1024),
		ShotCount: 3,
	})
	if !errors.Is(err, domain.ErrPersistenceFailed) {
		t.Fatalf("CreateCampaign() error = %v, want ErrPersistenceFailed", err)
	}

	if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != 10 {
		t.Errorf("balance = %d, want 10", balance)
	}
	// The generated-ads bucket must hold nothing: the uploaded blob for the
	// failed insert was cleaned up.
	for key := range f.blobs.objects {
		if len(key) > len(domain.BucketGeneratedAds) && key[:len(domain.BucketGeneratedAds)] == domain.BucketGeneratedAds {
			t.Errorf("orphaned generated-ad blob left behind: %s", key)
		}
	}
}

func editFixture(t *testing.T) (*fixture, *domain.Campaign, domain.Ad) {
	t.Helper()
	f := newFixture(10)
	campaign, err := f.svc.CreateCampaign(context.Background(), "user-1", CreateCampaignInput{
		FileName:  "mug.jpg",
		Data:      jpegFixture(1024),
		ShotCount: 3,
	})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	ads, _ := f.repo.ListAds(context.Background(), campaign.ID)
	return f, campaign, ads[0]
}

func TestEditAdHappyPath(t *testing.T) {
	f, campaign, ad := editFixture(t)
	start, _ := f.ledger.Balance(context.Background(), "user-1")

	newAd, err := f.svc.EditAd(context.Background(), "user-1", campaign.ID, ad.ID, "  make the background warmer  ")
	if err != nil {
		t.Fatalf("EditAd() error = %v", err)
	}

	if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != start-1 {
		t.Errorf("balance = %d, want %d", balance, start-1)
	}
	if newAd.ID == ad.ID {
		t.Error("edit must create a new ad, not overwrite")
	}
	if newAd.Format != ad.Format {
		t.Errorf("format = %s, want inherited %s", newAd.Format, ad.Format)
	}
	ads, _ := f.repo.ListAds(context.Background(), campaign.ID)
	if len(ads) != 4 {
		t.Errorf("ads = %d, want 4 (edits are additive)", len(ads))
	}

	prompt := f.gen.lastReq.Prompt
	if want := "User edit request: make the background warmer"; !bytes.Contains([]byte(prompt), []byte(want)) {
		t.Errorf("prompt %q missing %q", prompt, want)
	}
	if !bytes.Equal(f.gen.lastReq.Image, []byte("png-bytes")) {
		t.Error("edit must use the previous ad bytes as the reference image")
	}
}

func TestEditAdFailuresRefund(t *testing.T) {
	t.Run("generation fails", func(t *testing.T) {
		f, campaign, ad := editFixture(t)
		start, _ := f.ledger.Balance(context.Background(), "user-1")
		f.gen.failAt = f.gen.calls + 1

		_, err := f.svc.EditAd(context.Background(), "user-1", campaign.ID, ad.ID, "brighter")
		if !errors.Is(err, domain.ErrGenerationFailed) {
			t.Fatalf("EditAd() error = %v, want ErrGenerationFailed", err)
		}
		if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != start {
			t.Errorf("balance = %d, want %d (refunded)", balance, start)
		}
	})

	t.Run("reference download fails", func(t *testing.T) {
		f, campaign, ad := editFixture(t)
		start, _ := f.ledger.Balance(context.Background(), "user-1")
		f.blobs.getErr = errors.New("storage down")

		if _, err := f.svc.EditAd(context.Background(), "user-1", campaign.ID, ad.ID, "brighter"); err == nil {
			t.Fatal("EditAd() expected error")
		}
		if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != start {
			t.Errorf("balance = %d, want %d (refunded)", balance, start)
		}
	})

	t.Run("insert fails", func(t *testing.T) {
		f, campaign, ad := editFixture(t)
		start, _ := f.ledger.Balance(context.Background(), "user-1")
		f.repo.insertAdErr = func(*domain.Ad) error { return errors.New("insert blew up") }

		if _, err := f.svc.EditAd(context.Background(), "user-1", campaign.ID, ad.ID, "brighter"); err == nil {
			t.Fatal("EditAd() expected error")
		}
		if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != start {
			t.Errorf("balance = %d, want %d (refunded)", balance, start)
		}
	})

	t.Run("blank instruction charges nothing", func(t *testing.T) {
		f, campaign, ad := editFixture(t)
		start, _ := f.ledger.Balance(context.Background(), "user-1")

		_, err := f.svc.EditAd(context.Background(), "user-1", campaign.ID, ad.ID, "   ")
		if !domain.IsValidation(err) {
			t.Fatalf("EditAd() error = %v, want validation error", err)
		}
		if balance, _ := f.ledger.Balance(context.Background(), "user-1"); balance != start {
			t.Errorf("balance = %d, want %d", balance, start)
		}
	})

	t.Run("foreign campaign", func(t *testing.T) {
		f, campaign, ad := editFixture(t)
		_, err := f.svc.EditAd(context.Background(), "someone-else", campaign.ID, ad.ID, "brighter")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("EditAd() error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteCampaignRemovesBlobs(t *testing.T) {
	f, campaign, _ := editFixture(t)

	if err := f.svc.DeleteCampaign(context.Background(), "user-1", campaign.ID); err != nil {
		t.Fatalf("DeleteCampaign() error = %v", err)
	}
	if len(f.blobs.objects) != 0 {
		t.Errorf("blobs = %d, want 0 after delete", len(f.blobs.objects))
	}
	if _, err := f.repo.GetCampaignForUser(context.Background(), campaign.ID, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("campaign still present after delete")
	}
}

func TestToggleFavorite(t *testing.T) {
	f, _, ad := editFixture(t)

	on, err := f.svc.ToggleFavorite(context.Background(), "user-1", ad.ID)
	if err != nil || !on {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", on, err)
	}
	off, err := f.svc.ToggleFavorite(context.Background(), "user-1", ad.ID)
	if err != nil || off {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", off, err)
	}
}

func TestFavoriteAll(t *testing.T) {
	f, campaign, _ := editFixture(t)

	if err := f.svc.FavoriteAll(context.Background(), "user-1", campaign.ID); err != nil {
		t.Fatalf("FavoriteAll() error = %v", err)
	}
	ids, _ := f.repo.ListFavoriteAdIDs(context.Background(), "user-1", campaign.ID)
	if len(ids) != 3 {
		t.Errorf("favorites = %d, want 3", len(ids))
	}
	// Idempotent on repeat.
	if err := f.svc.FavoriteAll(context.Background(), "user-1", campaign.ID); err != nil {
		t.Fatalf("repeat FavoriteAll() error = %v", err)
	}
}

func TestCreateCampaignRequiresUser(t *testing.T) {
	f := newFixture(10)
	_, err := f.svc.CreateCampaign(context.Background(), "", CreateCampaignInput{
		FileName:  "mug.jpg",
		Data:      jpegFixture(1024),
		ShotCount: 3,
	})
	if !errors.Is(err, domain.ErrNotSignedIn) {
		t.Fatalf("CreateCampaign() error = %v, want ErrNotSignedIn", err)
	}
}
