package sentiment

import (
	"context"
	"math"

	"github.com/lalalalala1357/hospital-review-analysis/internal/scrape"
	"github.com/lalalalala1357/hospital-review-analysis/logger"
)

// Sentiment labels
const (
	Positive = "POSITIVE"
	Negative = "NEGATIVE"
)

// positiveThreshold is deliberately above 0.5: a review must show a
// stronger positive signal than mere neutrality to be labeled POSITIVE.
// The comparison is strict, so a probability of exactly 0.6 is NEGATIVE.
const positiveThreshold = 0.6

// neutralProbability substitutes for reviews the scorer failed on
const neutralProbability = 0.5

// ClassifiedReview is a raw review with its sentiment decision attached
type ClassifiedReview struct {
	Text      string  `json:"text"`
	TimeLabel string  `json:"time"`
	Sentiment string  `json:"label"`
	Score     float64 `json:"score"`
}

// Classifier labels reviews using an external positivity scorer
type Classifier struct {
	scorer Scorer
	log    *logger.Logger
}

// NewClassifier creates a classifier backed by the given scorer
func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{
		scorer: scorer,
		log:    logger.ForClassifier(),
	}
}

// Classify labels every review and accumulates per-label counts. Scorer
// failures degrade that review to a neutral probability instead of
// aborting the batch; the two counts always sum to len(reviews), and the
// output order matches the input order.
func (c *Classifier) Classify(ctx context.Context, reviews []scrape.RawReview) ([]ClassifiedReview, int, int) {
	classified := make([]ClassifiedReview, 0, len(reviews))
	positive := 0
	negative := 0

	for _, review := range reviews {
		p, err := c.scorer.Score(ctx, review.Text)
		if err != nil {
			c.log.Warn().Err(err).Str("review_id", review.ID).Msg("Scorer failed, using neutral probability")
			p = neutralProbability
		}

		score := math.Round(p*100*100) / 100

		label := Negative
		if p > positiveThreshold {
			label = Positive
			positive++
		} else {
			negative++
		}

		classified = append(classified, ClassifiedReview{
			Text:      review.Text,
			TimeLabel: review.TimeLabel,
			Sentiment: label,
			Score:     score,
		})
	}

	return classified, positive, negative
}
