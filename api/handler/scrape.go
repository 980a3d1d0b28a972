package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/cache"
	"github.com/use-agent/seotest/models"
	"github.com/use-agent/seotest/scraper"
)

// PageScraper is the part of *scraper.Scraper the handler needs.
type PageScraper interface {
	Scrape(ctx context.Context, targetURL string, timeout time.Duration) (*scraper.Page, error)
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Serve from cache when max_age allows.
//  3. Scraper.Scrape → ScrapeResult wrapped in a ScrapeDocument.
//  4. Store in cache when max_age was requested.
func Scrape(sc PageScraper, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		key := cache.Key(req.URL)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(key, req.MaxAge); hit {
				cached.CacheStatus = "hit"
				cached.TotalMs = time.Since(start).Milliseconds()
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		page, err := sc.Scrape(c.Request.Context(), req.URL, time.Duration(req.Timeout)*time.Second)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := &models.ScrapeResponse{
			Success:  true,
			FinalURL: page.FinalURL,
			Title:    page.Title,
			Document: &models.ScrapeDocument{Result: page.Result},
			TotalMs:  time.Since(start).Milliseconds(),
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(key, resp)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}
	_ = c.Error(err)

	c.JSON(mapErrorToStatus(scrapeErr), models.ErrorResponse{
		Error: scrapeErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput, models.ErrCodeExtraction:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
