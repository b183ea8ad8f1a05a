// Package scraper defines the per-site scrape contract and the shared
// headless-browser plumbing.
package scraper

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/chromedp/chromedp"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// ErrBrowserUnavailable is returned when no browser binary could be located.
// This is a fatal startup condition for scrapers that need one.
var ErrBrowserUnavailable = errors.New("no Chrome/Chromium binary found (set CHROME_BIN)")

// SiteScraper is the contract every marketplace scraper satisfies: given a
// brand filter it returns the site's raw listings for that brand.
type SiteScraper interface {
	Source() string
	Scrape(ctx context.Context, brand, location string) (*models.ScrapeResult, error)
}

// Browser is a scoped headless browser session. It is acquired at scrape
// start and must be released on every exit path via Close.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// StartBrowser launches a headless browser session using the given binary,
// or a discovered one when the path is empty. A missing binary fails here,
// before any navigation.
func StartBrowser(parent context.Context, chromeBin string) (*Browser, error) {
	bin := FindChromeBinary(chromeBin)
	if bin == "" {
		return nil, ErrBrowserUnavailable
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Browser{
		ctx:     ctx,
		cancels: []context.CancelFunc{cancelCtx, cancelAlloc},
	}, nil
}

// Run executes chromedp actions inside the session.
func (b *Browser) Run(actions ...chromedp.Action) error {
	return chromedp.Run(b.ctx, actions...)
}

// Close releases the browser session and its allocator.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// FindChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func FindChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
