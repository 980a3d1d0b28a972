package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	Pages          PagesConfig
	Scraper        ScraperConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	PagesRateLimit RateLimitConfig
	Cache          CacheConfig
	Log            LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 6785
	Mode string // "debug", "release", "test"; default: "release"

	// ShutdownTimeout bounds how long in-flight requests may drain.
	ShutdownTimeout time.Duration // default: 5s
}

// PagesConfig controls the static testing pages.
type PagesConfig struct {
	// TestDataFile is served verbatim by GET /test_data.
	TestDataFile string // default: "test_data.json"

	// StaticDir is served under /static when it exists.
	StaticDir string // default: "static"

	// Template is the page template rendered by GET /how-it-works.
	Template string // default: "how-it-works.html"

	// ExternalLink is the off-site link target placed on the page.
	ExternalLink string // default: "https://example.com/"

	// CORSOrigins lists origins allowed to fetch the pages and test data.
	CORSOrigins []string // default: ["*"]
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// DefaultProxy is the proxy URL for all fetches.
	DefaultProxy string

	// DuplicateThreshold is the simhash distance at or below which two
	// content blocks count as duplicates. Negative disables deduplication.
	DuplicateThreshold int // default: 3

	// Render loads pages in headless Chrome so script-built markup is
	// scraped. Off by default: most pages serve their SEO tags statically.
	Render bool // default: false

	// BrowserBin overrides the Chrome binary used when Render is set.
	// Empty lets rod find or download one.
	BrowserBin string

	// NoSandbox disables the Chrome sandbox (needed in most containers).
	NoSandbox bool // default: true
}

// AuthConfig controls API key authentication for /api/v1.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls token-bucket rate limiting. The API limits per
// caller (API key or IP); the testing pages limit per Origin.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 5 (API), 20 (pages)

	// Burst is the maximum burst size per identity.
	Burst int // default: 10 (API), 40 (pages)
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 500

	// TTL is the age after which entries are evicted.
	TTL time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envOr("SEOTEST_HOST", "0.0.0.0"),
			Port:            envIntOr("SEOTEST_PORT", 6785),
			Mode:            envOr("SEOTEST_MODE", "release"),
			ShutdownTimeout: envDurationOr("SEOTEST_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Pages: PagesConfig{
			TestDataFile: envOr("SEOTEST_TEST_DATA_FILE", "test_data.json"),
			StaticDir:    envOr("SEOTEST_STATIC_DIR", "static"),
			Template:     envOr("SEOTEST_TEMPLATE", "how-it-works.html"),
			ExternalLink: envOr("SEOTEST_EXTERNAL_LINK", "https://example.com/"),
			CORSOrigins:  envSliceOr("SEOTEST_CORS_ORIGINS", []string{"*"}),
		},
		Scraper: ScraperConfig{
			DefaultTimeout:     envDurationOr("SEOTEST_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:         envDurationOr("SEOTEST_MAX_TIMEOUT", 120*time.Second),
			DefaultProxy:       os.Getenv("SEOTEST_PROXY"),
			DuplicateThreshold: envIntOr("SEOTEST_DUPLICATE_THRESHOLD", 3),
			Render:             envBoolOr("SEOTEST_RENDER", false),
			BrowserBin:         os.Getenv("SEOTEST_BROWSER_BIN"),
			NoSandbox:          envBoolOr("SEOTEST_NO_SANDBOX", true),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SEOTEST_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SEOTEST_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SEOTEST_RATE_RPS", 5.0),
			Burst:             envIntOr("SEOTEST_RATE_BURST", 10),
		},
		PagesRateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SEOTEST_PAGES_RATE_RPS", 20.0),
			Burst:             envIntOr("SEOTEST_PAGES_RATE_BURST", 40),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SEOTEST_CACHE_MAX_ENTRIES", 500),
			TTL:        envDurationOr("SEOTEST_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("SEOTEST_LOG_LEVEL", "info"),
			Format: envOr("SEOTEST_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
