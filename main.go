package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lalalalala1357/hospital-review-analysis/config"
	"github.com/lalalalala1357/hospital-review-analysis/helpers"
	"github.com/lalalalala1357/hospital-review-analysis/internal/analyzer"
	"github.com/lalalalala1357/hospital-review-analysis/internal/scrape"
	"github.com/lalalalala1357/hospital-review-analysis/internal/sentiment"
	"github.com/lalalalala1357/hospital-review-analysis/internal/store"
	"github.com/lalalalala1357/hospital-review-analysis/logger"
	"github.com/lalalalala1357/hospital-review-analysis/services/cache"
	"github.com/lalalalala1357/hospital-review-analysis/services/publisher"
	"github.com/lalalalala1357/hospital-review-analysis/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("analyze_interval", cfg.AnalyzeInterval).
		Int("hospital_count", len(cfg.Hospitals)).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		services.Analyzer,
		cfg.Hospitals,
		helpers.NewLogger("logs/error.log"),
		cfg.AnalyzeInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting hospital review worker")
		err := w.Start()
		workerDone <- err
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     *store.Store
	Analyzer  *analyzer.Service
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if cacheService == nil {
		return nil, fmt.Errorf("failed to create cache service")
	}
	services.Cache = cacheService

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	if redisPublisher == nil {
		return nil, fmt.Errorf("failed to create redis publisher")
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Open the review store and run migrations
	reviewStore, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open review store: %w", err)
	}
	services.Store = reviewStore

	logger.Info("Connected to MySQL review store")

	// Build the pipeline
	extractor := scrape.NewExtractor(scrape.ExtractorConfig{
		BaseURL:     cfg.MapsBaseURL,
		Headless:    cfg.ChromeHeadless,
		ProxyAddr:   cfg.ChromeProxy,
		ScrollDelay: cfg.ScrollDelay,
		Timeout:     cfg.ExtractionTimeout,
	})
	scorer := sentiment.NewHTTPScorer(cfg.SentimentEndpoint, cfg.SentimentAPIKey, cfg.SentimentTimeout)
	classifier := sentiment.NewClassifier(scorer)

	services.Analyzer = analyzer.NewService(
		extractor,
		classifier,
		reviewStore,
		services.Cache,
		services.Publisher,
		analyzer.Options{
			MaxReviews:        cfg.MaxReviews,
			MaxScrollAttempts: cfg.MaxScrollAttempts,
			CooldownWindow:    cfg.CooldownWindow,
			ExportPath:        cfg.ExportPath,
		},
	)

	return services, nil
}
