package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"admaker/internal/adapter/repo"
	"admaker/internal/billing"
	"admaker/internal/generation"
	"admaker/internal/http/handlers"
	httpapi "admaker/internal/http/httpapi"
	"admaker/internal/infra"
	"admaker/internal/infra/geoip"
	"admaker/internal/photoshoot"
	"admaker/internal/prompts"
	"admaker/internal/providers/genai"
	"admaker/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		countries = nil
	}

	blobs, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init blob store")
	}

	genaiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init genai client")
	}

	generator, err := generation.NewGenerator(generation.Options{
		Backend: genaiClient,
		Config: generation.Config{
			PrimaryModel:  cfg.ImageModel,
			FallbackModel: cfg.ImageFallbackModel,
			Attempts:      cfg.GenerationRetries,
			Backoff:       cfg.RetryBackoff,
			Timeout:       cfg.GenerationTimeout,
		},
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init generator")
	}

	composer := prompts.NewComposer(genai.NewVisionModel(genaiClient, cfg.GeminiVisionModel), &logger)

	campaignRepo := repo.NewCampaignRepository(dbpool)
	ledger := repo.NewCreditLedger(dbpool)
	service := photoshoot.NewService(campaignRepo, ledger, blobs, composer, generator, &logger)

	var checkout *billing.Client
	if cfg.BillingAPIKey != "" {
		checkout, err = billing.NewClient(billing.Options{
			APIKey:  cfg.BillingAPIKey,
			BaseURL: cfg.BillingBaseURL,
			Logger:  &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init billing client")
		}
	} else {
		logger.Warn().Msg("billing disabled, no API key configured")
	}

	app := &handlers.App{
		Service:  service,
		Ledger:   ledger,
		Blobs:    blobs,
		Checkout: checkout,
		Fulfill:  billing.NewFulfiller(ledger, &logger),
		Config:   cfg,
		Logger:   logger,
	}

	router := httpapi.NewRouter(app, countries, cfg.StoragePath)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
