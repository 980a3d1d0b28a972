package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/seotest/config"
	"github.com/use-agent/seotest/models"
)

// Page is a scraped page ready for the test-data transformer.
type Page struct {
	FinalURL   string
	Title      string
	StatusCode int
	Result     *models.ScrapeResult
}

// Scraper fetches pages and extracts their SEO elements.
// It is safe for concurrent use.
type Scraper struct {
	cfg     config.ScraperConfig
	fetcher pageFetcher
}

// NewScraper creates a Scraper using the proxy and timeouts from cfg. With
// cfg.Render set, pages are loaded in headless Chrome (launched on the first
// scrape) instead of fetched over HTTP.
func NewScraper(cfg config.ScraperConfig) (*Scraper, error) {
	if cfg.Render {
		return &Scraper{cfg: cfg, fetcher: newBrowserFetcher(cfg)}, nil
	}
	f, err := newHTTPFetcher(cfg.DefaultProxy)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid proxy configuration", err)
	}
	return &Scraper{cfg: cfg, fetcher: f}, nil
}

// Scrape fetches targetURL and extracts its elements. A zero timeout uses
// the configured default; larger values are clamped to the configured max.
func (s *Scraper) Scrape(ctx context.Context, targetURL string, timeout time.Duration) (*Page, error) {
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}
	if s.cfg.MaxTimeout > 0 && timeout > s.cfg.MaxTimeout {
		timeout = s.cfg.MaxTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	page, err := s.fetcher.fetch(ctx, targetURL)
	if err != nil {
		var se *models.ScrapeError
		if errors.As(err, &se) {
			return nil, se
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, models.NewScrapeError(models.ErrCodeTimeout, "page fetch timed out", err)
		}
		return nil, models.NewScrapeError(models.ErrCodeNavigation, "page fetch failed", err)
	}

	result, err := Extract(string(page.body), page.finalURL, ExtractOptions{
		DuplicateThreshold: s.cfg.DuplicateThreshold,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("page scraped",
		"url", targetURL,
		"finalURL", page.finalURL,
		"elements", result.Len(),
		"ms", time.Since(start).Milliseconds(),
	)

	return &Page{
		FinalURL:   page.finalURL,
		Title:      extractTitle(page.body),
		StatusCode: page.statusCode,
		Result:     result,
	}, nil
}

// Close releases idle connections and stops the browser, if one was launched.
func (s *Scraper) Close() {
	s.fetcher.close()
}
