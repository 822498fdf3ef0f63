// Package analyzer runs the scrape → classify → upsert pipeline for one
// hospital name per call.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lalalalala1357/hospital-review-analysis/internal/scrape"
	"github.com/lalalalala1357/hospital-review-analysis/internal/sentiment"
	"github.com/lalalalala1357/hospital-review-analysis/internal/store"
	"github.com/lalalalala1357/hospital-review-analysis/logger"
	apperr "github.com/lalalalala1357/hospital-review-analysis/pkg/errors"
	"github.com/lalalalala1357/hospital-review-analysis/services/cache"
	"github.com/lalalalala1357/hospital-review-analysis/services/publisher"
)

// ErrNoReviews reports an extraction that yielded nothing. It covers both
// "this hospital has zero reviews" and "the feed could not be reached";
// the pipeline does not tell the two apart.
var ErrNoReviews = errors.New("no reviews retrieved")

// ReviewExtractor produces deduplicated raw reviews for a hospital name
type ReviewExtractor interface {
	Extract(ctx context.Context, hospital string, maxCount, maxScrolls int) []scrape.RawReview
}

// SentimentClassifier labels raw reviews and counts each label
type SentimentClassifier interface {
	Classify(ctx context.Context, reviews []scrape.RawReview) ([]sentiment.ClassifiedReview, int, int)
}

// ReviewStore persists one run's classified reviews
type ReviewStore interface {
	SaveAnalysis(ctx context.Context, name string, classified []sentiment.ClassifiedReview) error
}

// Result is the outcome of one analysis run
type Result struct {
	RunID    string                       `json:"run_id"`
	Hospital string                       `json:"hospital"`
	Reviews  []sentiment.ClassifiedReview `json:"reviews"`
	Positive int                          `json:"positive"`
	Negative int                          `json:"negative"`
}

// Options tunes one service instance
type Options struct {
	MaxReviews        int
	MaxScrollAttempts int
	CooldownWindow    time.Duration
	ExportPath        string
}

// Service wires the pipeline stages together
type Service struct {
	extractor  ReviewExtractor
	classifier SentimentClassifier
	store      ReviewStore
	cache      cache.CacheService
	publisher  publisher.Publisher
	opts       Options
	log        *logger.Logger
}

// NewService creates the analysis service. Cache and publisher may be nil;
// the cooldown and the run-summary side-channels are then disabled.
func NewService(
	extractor ReviewExtractor,
	classifier SentimentClassifier,
	reviewStore ReviewStore,
	cacheSvc cache.CacheService,
	pub publisher.Publisher,
	opts Options,
) *Service {
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = 30
	}
	if opts.MaxScrollAttempts <= 0 {
		opts.MaxScrollAttempts = 15
	}
	return &Service{
		extractor:  extractor,
		classifier: classifier,
		store:      reviewStore,
		cache:      cacheSvc,
		publisher:  pub,
		opts:       opts,
		log:        logger.ForAnalyzer(),
	}
}

// Analyze runs the whole pipeline for one hospital: extraction,
// classification and persistence execute sequentially in this call.
// Store failures are fatal and propagated; the CSV export and the run
// summary are side-channels whose failures are only logged.
func (s *Service) Analyze(ctx context.Context, hospital string) (*Result, error) {
	if hospital == "" {
		return nil, apperr.NewValidation(hospital, "hospital name must not be empty")
	}

	cooldownKey := "cooldown:" + store.ExternalKey(hospital)
	if s.cache != nil {
		if _, err := s.cache.Get(cooldownKey); err == nil {
			return nil, apperr.NewCooldown(hospital, s.opts.CooldownWindow)
		}
	}

	raw := s.extractor.Extract(ctx, hospital, s.opts.MaxReviews, s.opts.MaxScrollAttempts)
	if len(raw) == 0 {
		return nil, ErrNoReviews
	}

	if s.cache != nil && s.opts.CooldownWindow > 0 {
		if err := s.cache.Set(cooldownKey, []byte("1"), s.opts.CooldownWindow); err != nil {
			s.log.Warn().Err(err).Str("hospital", hospital).Msg("Could not set cooldown")
		}
	}

	classified, positive, negative := s.classifier.Classify(ctx, raw)

	if err := s.store.SaveAnalysis(ctx, hospital, classified); err != nil {
		return nil, apperr.NewStore(hospital, "persist analysis", err)
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Hospital: hospital,
		Reviews:  classified,
		Positive: positive,
		Negative: negative,
	}

	if s.opts.ExportPath != "" {
		if err := WriteCSV(s.opts.ExportPath, classified); err != nil {
			s.log.Warn().Err(err).Str("path", s.opts.ExportPath).Msg("CSV export failed")
		}
	}

	s.publishSummary(result)

	s.log.Info().
		Str("run_id", result.RunID).
		Str("hospital", hospital).
		Int("reviews", len(classified)).
		Int("positive", positive).
		Int("negative", negative).
		Msg("Analysis complete")
	return result, nil
}

// publishSummary emits a compact run summary to the stream publisher
func (s *Service) publishSummary(result *Result) {
	if s.publisher == nil {
		return
	}

	summary := map[string]interface{}{
		"run_id":       result.RunID,
		"hospital":     result.Hospital,
		"review_count": len(result.Reviews),
		"positive":     result.Positive,
		"negative":     result.Negative,
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		s.log.Error().Err(err).Msg("Could not marshal run summary")
		return
	}
	if err := s.publisher.Publish("analysis", payload); err != nil {
		s.log.Warn().Err(err).Str("run_id", result.RunID).Msg("Run summary publish failed")
	}
}
