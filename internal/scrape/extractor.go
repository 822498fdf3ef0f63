package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/lalalalala1357/hospital-review-analysis/helpers"
	"github.com/lalalalala1357/hospital-review-analysis/logger"
)

// ExtractorConfig configures the browser-driven review extractor
type ExtractorConfig struct {
	// BaseURL is the maps search URL prefix the hospital name is appended to
	BaseURL string
	// Headless controls whether Chrome runs without a visible window
	Headless bool
	// ProxyAddr, when set, is passed to Chrome as its proxy server
	ProxyAddr string
	// ScrollDelay is the fixed wait after each scroll for lazy content
	ScrollDelay time.Duration
	// Timeout bounds one whole extraction including navigation
	Timeout time.Duration
	// Selectors locate review blocks in the rendered feed
	Selectors FeedSelectors
}

// Extractor drives an exclusive browser session against the maps review
// feed of a named hospital and emits deduplicated raw reviews.
type Extractor struct {
	cfg ExtractorConfig

	// probe is a cheap reachability check run before a browser session is
	// paid for; injectable for tests
	probe func(url string) error
}

// NewExtractor creates an extractor with defaults filled in
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.google.com.tw/maps/search/"
	}
	if cfg.ScrollDelay <= 0 {
		cfg.ScrollDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Selectors == (FeedSelectors{}) {
		cfg.Selectors = DefaultFeedSelectors()
	}
	return &Extractor{
		cfg: cfg,
		probe: func(url string) error {
			_, err := helpers.FetchWithRandomHeaders(url)
			return err
		},
	}
}

// Extract collects up to maxCount unique non-empty reviews for the named
// hospital, scrolling the feed at most maxScrolls times. Any failure to
// reach or read the feed collapses to an empty result; the browser session
// is torn down on every exit path. Callers cannot distinguish "no reviews
// exist" from "feed unreachable".
func (e *Extractor) Extract(ctx context.Context, hospital string, maxCount, maxScrolls int) []RawReview {
	log := logger.ForExtractor(hospital)

	if strings.TrimSpace(hospital) == "" || maxCount <= 0 || maxScrolls <= 0 {
		log.Warn().Msg("Extraction skipped: invalid arguments")
		return nil
	}

	searchURL := e.cfg.BaseURL + url.PathEscape(hospital) + "?hl=zh-TW"

	if err := e.probe(searchURL); err != nil {
		// The browser may still succeed where a plain request is blocked
		log.Warn().Err(err).Msg("Reachability probe failed, continuing with browser session")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("incognito", true),
		chromedp.WindowSize(1200, 800),
	)
	if e.cfg.ProxyAddr != "" {
		opts = append(opts, chromedp.ProxyServer(e.cfg.ProxyAddr))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, e.cfg.Timeout)
	defer cancelRun()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(searchURL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		log.Error().Err(err).Msg("Navigation failed")
		return nil
	}

	strategy, err := openFeed(runCtx, e.feedStrategies())
	if err != nil {
		log.Warn().Err(err).Msg("Could not open review feed")
		return nil
	}
	log.Debug().Str("strategy", strategy).Msg("Review feed opened")

	// Best-effort only; extraction order degrades without it
	if err := e.sortByNewest(runCtx); err != nil {
		log.Debug().Err(err).Msg("Sort by newest failed, keeping default order")
	}

	scanner := newFeedScanner(e.cfg.Selectors, maxCount)
	for i := 0; i < maxScrolls; i++ {
		if err := chromedp.Run(runCtx,
			chromedp.Evaluate(expandReviewsScript, nil),
			chromedp.Evaluate(scrollFeedScript, nil),
			chromedp.Sleep(e.cfg.ScrollDelay),
		); err != nil {
			log.Error().Err(err).Int("scroll", i).Msg("Scroll failed")
			return nil
		}

		var snapshot string
		if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &snapshot, chromedp.ByQuery)); err != nil {
			log.Error().Err(err).Int("scroll", i).Msg("Snapshot failed")
			return nil
		}

		full, err := scanner.scan(strings.NewReader(snapshot))
		if err != nil {
			log.Error().Err(err).Int("scroll", i).Msg("Feed scan failed")
			return nil
		}
		if full {
			break
		}
	}

	reviews := scanner.collected()
	log.Info().Int("count", len(reviews)).Msg("Extraction finished")
	return reviews
}

// locatorStrategy is one attempt at opening the review feed. Strategies are
// tried in priority order; the first success wins.
type locatorStrategy struct {
	name string
	open func(ctx context.Context) error
}

func (e *Extractor) feedStrategies() []locatorStrategy {
	return []locatorStrategy{
		{
			name: "aria-label",
			open: func(ctx context.Context) error {
				return runWithTimeout(ctx, 10*time.Second,
					chromedp.Click(`button[aria-label*="評論"]`, chromedp.ByQuery, chromedp.NodeVisible),
					chromedp.Sleep(2*time.Second),
				)
			},
		},
		{
			name: "tab-role",
			open: func(ctx context.Context) error {
				return runWithTimeout(ctx, 10*time.Second,
					chromedp.Click(`button[role="tab"][aria-label*="評論"]`, chromedp.ByQuery, chromedp.NodeVisible),
					chromedp.Sleep(2*time.Second),
				)
			},
		},
		{
			name: "first-result",
			open: func(ctx context.Context) error {
				if err := runWithTimeout(ctx, 10*time.Second,
					chromedp.Click(`a.hfpxzc`, chromedp.ByQuery, chromedp.NodeVisible),
					chromedp.Sleep(2*time.Second),
				); err != nil {
					return err
				}
				return runWithTimeout(ctx, 10*time.Second,
					chromedp.Click(`button[aria-label*="評論"]`, chromedp.ByQuery, chromedp.NodeVisible),
					chromedp.Sleep(2*time.Second),
				)
			},
		},
	}
}

// openFeed tries each strategy in order and returns the name of the first
// that succeeds, or the last error when all fail.
func openFeed(ctx context.Context, strategies []locatorStrategy) (string, error) {
	var lastErr error
	for _, s := range strategies {
		if err := s.open(ctx); err != nil {
			lastErr = err
			continue
		}
		return s.name, nil
	}
	return "", lastErr
}

func (e *Extractor) sortByNewest(ctx context.Context) error {
	if err := runWithTimeout(ctx, 10*time.Second,
		chromedp.Click(`button[aria-label*="排序"]`, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.Sleep(time.Second),
	); err != nil {
		return err
	}
	return runWithTimeout(ctx, 10*time.Second,
		chromedp.Evaluate(sortNewestScript, nil),
		chromedp.Sleep(2*time.Second),
	)
}

func runWithTimeout(ctx context.Context, d time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

const scrollFeedScript = `(function () {
  const feed = document.querySelector('div[role="feed"]');
  if (feed) {
    feed.scrollTop += 800;
  } else {
    window.scrollBy(0, 800);
  }
})();`

const expandReviewsScript = `(function () {
  const buttons = document.querySelectorAll('button.w8nwRe, button[aria-label*="全文"]');
  for (const b of buttons) {
    b.click();
  }
})();`

const sortNewestScript = `(function () {
  const items = document.querySelectorAll('div[role="menuitem"]');
  for (const item of items) {
    if (item.textContent && item.textContent.includes('最新')) {
      item.click();
      return true;
    }
  }
  return false;
})();`
