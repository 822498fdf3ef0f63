package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Scorer produces a positivity probability in [0,1] for a piece of text
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// HTTPScorer talks to an external sentiment-scoring service
type HTTPScorer struct {
	client *resty.Client
}

// NewHTTPScorer creates a reusable scorer client
func NewHTTPScorer(endpoint, apiKey string, timeout time.Duration) *HTTPScorer {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPScorer{client: client}
}

// Score sends the text for scoring and returns its positivity probability
func (s *HTTPScorer) Score(ctx context.Context, text string) (float64, error) {
	var out struct {
		Probability float64 `json:"probability"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&out).
		Post("/score")
	if err != nil {
		return 0, fmt.Errorf("score request: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("score request: unexpected status %s", resp.Status())
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, fmt.Errorf("score request: probability %f out of range", out.Probability)
	}

	return out.Probability, nil
}
