package scrape

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawReview is one deduplicated review as observed in the feed. The ID is
// the feed-local identifier assigned by the source UI; it is only
// meaningful within a single extraction run.
type RawReview struct {
	ID        string
	Text      string
	TimeLabel string
}

// FeedSelectors contains CSS selectors for the rendered review feed
type FeedSelectors struct {
	Block       string // one review block
	IDAttribute string // attribute carrying the feed-local identifier
	Text        string // review text inside a block
	TimeLabel   string // relative time label inside a block
}

// DefaultFeedSelectors matches the current Google Maps review feed markup
func DefaultFeedSelectors() FeedSelectors {
	return FeedSelectors{
		Block:       "div[data-review-id]",
		IDAttribute: "data-review-id",
		Text:        "span.wiI7pd",
		TimeLabel:   "span.rsqaWe",
	}
}

// fallbackTimeLabel stands in when a block carries no readable time label
const fallbackTimeLabel = "近期"

// feedScanner accumulates deduplicated reviews across successive snapshots
// of the rendered feed. The seen set lives for one extraction run only.
type feedScanner struct {
	selectors FeedSelectors
	maxCount  int
	seen      map[string]struct{}
	reviews   []RawReview
}

func newFeedScanner(selectors FeedSelectors, maxCount int) *feedScanner {
	return &feedScanner{
		selectors: selectors,
		maxCount:  maxCount,
		seen:      make(map[string]struct{}),
	}
}

// scan walks all review blocks in a rendered snapshot and collects every
// block whose feed-local identifier has not been seen this run, provided
// its sanitized text is non-empty. Returns true when the run's maximum
// count has been reached.
func (f *feedScanner) scan(snapshot io.Reader) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(snapshot)
	if err != nil {
		return false, err
	}

	full := false
	doc.Find(f.selectors.Block).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(f.reviews) >= f.maxCount {
			full = true
			return false
		}

		id, ok := s.Attr(f.selectors.IDAttribute)
		if !ok || id == "" {
			return true
		}
		if _, dup := f.seen[id]; dup {
			return true
		}

		text := Sanitize(strings.TrimSpace(s.Find(f.selectors.Text).First().Text()))
		if strings.TrimSpace(text) == "" {
			return true
		}

		timeLabel := strings.TrimSpace(s.Find(f.selectors.TimeLabel).First().Text())
		if timeLabel == "" {
			timeLabel = fallbackTimeLabel
		}

		f.reviews = append(f.reviews, RawReview{
			ID:        id,
			Text:      text,
			TimeLabel: timeLabel,
		})
		f.seen[id] = struct{}{}

		if len(f.reviews) >= f.maxCount {
			full = true
			return false
		}
		return true
	})

	return full, nil
}

// collected returns the reviews gathered so far in first-observed order
func (f *feedScanner) collected() []RawReview {
	return f.reviews
}
