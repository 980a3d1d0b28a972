package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/config"
	"github.com/use-agent/seotest/models"
)

// Link target pages. The edit script rewrites anchors between the "old" and
// new variants, so each must be distinguishable at a glance.
const (
	ExternalLinkOldHTML = "<b>External link old</b>"
	ExternalLinkHTML    = "<b>External link</b>"
	InternalLinkOldHTML = "<b>Internal link old</b>"
	InternalLinkHTML    = "<b>Internal link</b>"
)

// HowItWorks returns a handler for GET /how-it-works rendering the page the
// edit script runs against.
func HowItWorks(cfg config.PagesConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, cfg.Template, gin.H{
			"ExternalLink": cfg.ExternalLink,
			"Now":          time.Now(),
		})
	}
}

// TestData returns a handler for GET /test_data. The configured file is read
// on every request and served verbatim, so it can be regenerated while the
// server runs.
func TestData(cfg config.PagesConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := os.ReadFile(cfg.TestDataFile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error: &models.ErrorDetail{
						Code:    models.ErrCodeNotFound,
						Message: "test data file not found",
					},
				})
				return
			}
			slog.Error("read test data", "file", cfg.TestDataFile, "error", err)
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "failed to read test data",
				},
			})
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

// Snippet returns a handler that writes a fixed HTML fragment.
func Snippet(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	}
}
