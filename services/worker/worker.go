package worker

import (
	"context"
	"errors"
	"time"

	"github.com/lalalalala1357/hospital-review-analysis/helpers"
	"github.com/lalalalala1357/hospital-review-analysis/internal/analyzer"
)

// AnalysisService runs the pipeline for one hospital name
type AnalysisService interface {
	Analyze(ctx context.Context, hospital string) (*analyzer.Result, error)
}

// Worker periodically analyzes a fixed list of hospitals. Each round runs
// the hospitals strictly one after another: every analysis owns an
// exclusive browser session, and only one such session may be live at a
// time in a memory-constrained deployment.
type Worker struct {
	ctx       context.Context
	analyzer  AnalysisService
	hospitals []string
	logger    helpers.LoggerInterface
	interval  time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	analysis AnalysisService,
	hospitals []string,
	logger helpers.LoggerInterface,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		analyzer:  analysis,
		hospitals: hospitals,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs analysis rounds until the context is canceled
func (w *Worker) Start() error {
	for {
		start := time.Now()
		w.runRound()
		w.logger.LogInfo("analysis round finished in %s", time.Since(start))

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// runRound analyzes each hospital in order, continuing past failures
func (w *Worker) runRound() {
	for _, hospital := range w.hospitals {
		select {
		case <-w.ctx.Done():
			return
		default:
		}
		w.analyzeOne(hospital)
	}
}

// analyzeOne runs one analysis and logs its outcome
func (w *Worker) analyzeOne(hospital string) {
	result, err := w.analyzer.Analyze(w.ctx, hospital)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoReviews) {
			w.logger.LogInfo("%s: no reviews retrieved", hospital)
			return
		}
		w.logger.LogError(hospital, err)
		return
	}

	w.logger.LogInfo("%s: %d reviews (%d positive / %d negative), run %s",
		hospital, len(result.Reviews), result.Positive, result.Negative, result.RunID)
}
