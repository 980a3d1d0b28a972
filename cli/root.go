package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/seotest/config"
)

var (
	cfg     *config.Config
	verbose bool
)

// rootCmd is the base command for seotest.
var rootCmd = &cobra.Command{
	Use:   "seotest",
	Short: "Build and serve SEO edit test data",
	Long: `seotest turns scraped page elements (meta tags, images, content
blocks, links) into test-data records for the page edit script, and serves
the pages that script is exercised against.

Configuration comes from SEOTEST_* environment variables; flags override
them where offered.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			cfg.Log.Level = "debug"
		}
		initLogger(cfg.Log)
	},
}

func init() {
	cfg = config.Load()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.Scraper.Render, "render", cfg.Scraper.Render,
		"render pages in headless Chrome before extracting (default: SEOTEST_RENDER)")

	rootCmd.AddCommand(newServeCmd(), newConvertCmd(), newScrapeCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogger configures slog based on the LogConfig.
func initLogger(lc config.LogConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
