package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/seotest/config"
	"github.com/use-agent/seotest/models"
)

// pageFetcher returns the markup of a page after redirects.
type pageFetcher interface {
	fetch(ctx context.Context, targetURL string) (*fetched, error)
	close()
}

// browserFetcher loads pages in headless Chrome so markup built by scripts
// (single-page apps, Flutter web) is present before extraction. The browser
// is launched on first use and shared by all fetches.
type browserFetcher struct {
	cfg config.ScraperConfig

	mu      sync.Mutex
	browser *rod.Browser
}

func newBrowserFetcher(cfg config.ScraperConfig) *browserFetcher {
	return &browserFetcher{cfg: cfg}
}

func (f *browserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(f.cfg.NoSandbox)
	if f.cfg.BrowserBin != "" {
		l = l.Bin(f.cfg.BrowserBin)
	}
	if f.cfg.DefaultProxy != "" {
		l = l.Proxy(f.cfg.DefaultProxy)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeNavigation, "failed to launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeNavigation, "failed to connect to browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	f.browser = browser
	return browser, nil
}

// fetch navigates a fresh tab to targetURL and waits for the DOM to settle.
// Stealth patches go in before navigation so the page never sees
// navigator.webdriver.
func (f *browserFetcher) fetch(ctx context.Context, targetURL string) (*fetched, error) {
	browser, err := f.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Debug("close tab", "error", err)
		}
	}()

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	p := page.Context(ctx)
	if err := p.Navigate(targetURL); err != nil {
		return nil, err
	}
	if err := p.WaitLoad(); err != nil {
		return nil, err
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, err
	}

	finalURL := targetURL
	if res, err := p.Eval(`() => window.location.href`); err == nil && res.Value.Str() != "" {
		finalURL = res.Value.Str()
	}
	statusCode := 0
	if res, err := p.Eval(`() => {
		const nav = performance.getEntriesByType("navigation");
		return nav.length > 0 ? (nav[0].responseStatus || 0) : 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}

	return &fetched{body: []byte(html), finalURL: finalURL, statusCode: statusCode}, nil
}

func (f *browserFetcher) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return
	}
	if err := f.browser.Close(); err != nil {
		slog.Warn("close browser", "error", err)
	}
	f.browser = nil
}
