// Package generation layers retry, backoff and model fallback on top of a raw
// image backend. Callers hand it a composed prompt and a product photo and
// get back final image bytes or a single user-safe error.
package generation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"admaker/internal/domain"
	"admaker/internal/providers/genai"
)

// ImageBackend is the slice of the provider client the generator needs.
type ImageBackend interface {
	GenerateImage(ctx context.Context, model string, image []byte, mimeType, prompt, aspectRatio string) ([]byte, error)
}

// Request carries one generation job through the retry pipeline.
type Request struct {
	Image       []byte
	MimeType    string
	Prompt      string
	AspectRatio string
}

// Config controls the retry and fallback policy.
type Config struct {
	PrimaryModel  string
	FallbackModel string
	Attempts      int
	Backoff       time.Duration
	Timeout       time.Duration
}

// Options configures a Generator.
type Options struct {
	Backend  ImageBackend
	Config   Config
	Classify Classifier
	Sleep    func(ctx context.Context, d time.Duration) error
	Logger   *zerolog.Logger
}

// Generator runs generation attempts against the primary model and falls back
// to a cheaper model when the primary is exhausted.
type Generator struct {
	backend  ImageBackend
	cfg      Config
	classify Classifier
	sleep    func(ctx context.Context, d time.Duration) error
	logger   zerolog.Logger
}

// NewGenerator builds a Generator, filling in defaults for any policy knobs
// the caller left unset.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Backend == nil {
		return nil, errors.New("generation: backend is required")
	}

	cfg := opts.Config
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}

	classify := opts.Classify
	if classify == nil {
		classify = DefaultClassifier
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Generator{
		backend:  opts.Backend,
		cfg:      cfg,
		classify: classify,
		sleep:    sleep,
		logger:   logger,
	}, nil
}

// Generate runs the request against the primary model with retries, then the
// fallback model with retries. Both exhausted means domain.ErrGenerationFailed;
// the underlying causes are logged, never surfaced.
func (g *Generator) Generate(ctx context.Context, req Request) ([]byte, error) {
	models := []string{g.cfg.PrimaryModel}
	if g.cfg.FallbackModel != "" && g.cfg.FallbackModel != g.cfg.PrimaryModel {
		models = append(models, g.cfg.FallbackModel)
	}

	for _, model := range models {
		image, err := g.tryModel(ctx, model, req)
		if err == nil {
			return image, nil
		}
		if ctx.Err() != nil {
			return nil, domain.ErrGenerationFailed
		}
		g.logger.Warn().
			Str("model", model).
			Err(err).
			Msg("model exhausted, moving on")
	}

	return nil, domain.ErrGenerationFailed
}

func (g *Generator) tryModel(ctx context.Context, model string, req Request) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= g.cfg.Attempts; attempt++ {
		image, err := g.attempt(ctx, model, req)
		if err == nil {
			if len(image) > 0 {
				return image, nil
			}
			err = genai.ErrNoImage
		}
		lastErr = err

		g.logger.Warn().
			Str("model", model).
			Int("attempt", attempt).
			Err(err).
			Msg("generation attempt failed")

		if g.classify(err) != Retryable {
			return nil, err
		}
		if attempt == g.cfg.Attempts {
			break
		}
		if sleepErr := g.sleep(ctx, g.retryDelay(err)); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return nil, lastErr
}

func (g *Generator) attempt(ctx context.Context, model string, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return g.backend.GenerateImage(ctx, model, req.Image, req.MimeType, req.Prompt, req.AspectRatio)
}

// retryDelay honors an explicit Retry-After from the provider, otherwise uses
// the configured backoff.
func (g *Generator) retryDelay(err error) time.Duration {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	return g.cfg.Backoff
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
