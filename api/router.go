package api

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/api/handler"
	"github.com/use-agent/seotest/api/middleware"
	"github.com/use-agent/seotest/cache"
	"github.com/use-agent/seotest/config"
	"github.com/use-agent/seotest/web"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → RequestID → CORS
//	Pages:   RateLimit per Origin
//	API:     Auth (if enabled) → RateLimit per caller
//
// The testing pages and health endpoint sit outside auth: the page script
// runs inside arbitrary sites and cannot carry a key.
func NewRouter(sc handler.PageScraper, cfg *config.Config, cc *cache.Cache, startTime time.Time) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.Pages.CORSOrigins))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// Testing pages, fetched by the script running on the site under test.
	pages := r.Group("")
	pages.Use(middleware.RateLimit(cfg.PagesRateLimit, middleware.ByOrigin))
	pages.GET("/how-it-works", handler.HowItWorks(cfg.Pages))
	pages.GET("/test_data", handler.TestData(cfg.Pages))
	pages.GET("/external_link_old", handler.Snippet(handler.ExternalLinkOldHTML))
	pages.GET("/external_link", handler.Snippet(handler.ExternalLinkHTML))
	pages.GET("/internal_link_old", handler.Snippet(handler.InternalLinkOldHTML))
	pages.GET("/internal_link", handler.Snippet(handler.InternalLinkHTML))

	if info, err := os.Stat(cfg.Pages.StaticDir); err == nil && info.IsDir() {
		pages.Static("/static", cfg.Pages.StaticDir)
	} else {
		slog.Debug("static directory not served", "dir", cfg.Pages.StaticDir)
	}

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(cc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit, middleware.ByCaller))

	protected.POST("/test-data", handler.PostTestData())
	if sc != nil {
		protected.POST("/scrape", handler.Scrape(sc, cc))
	}

	return r, nil
}
