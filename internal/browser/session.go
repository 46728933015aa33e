// -----------------------------------------------------------------------
// Browser session factory - one chromedp session per test
// -----------------------------------------------------------------------

package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/ternarybob/iudex/internal/common"
)

// Session wraps a chromedp browser context for a single test.
// All WebDriver-style calls are synchronous and blocking; the session is
// not safe for concurrent use.
type Session struct {
	Ctx context.Context

	cfg         *common.Config
	downloadDir string
	limiter     *rate.Limiter
	cleanup     []func()
}

// NewSession starts a browser and returns a ready session.
// Navigation against the production site is paced by cfg.Browser.NavDelay.
func NewSession(parent context.Context, cfg *common.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	)
	if cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Browser.ExecPath))
	}
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Browser.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		Ctx: browserCtx,
		cfg: cfg,
	}

	// Cleanup functions run in reverse order (LIFO)
	s.cleanup = append(s.cleanup, cancelAlloc)
	s.cleanup = append(s.cleanup, cancelBrowser)
	s.cleanup = append(s.cleanup, func() {
		_ = chromedp.Cancel(browserCtx)
	})

	if cfg.Browser.NavDelay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Browser.NavDelay), 1)
	}

	downloadDir, err := filepath.Abs(cfg.Browser.DownloadDir)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to resolve download directory: %w", err)
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	s.downloadDir = downloadDir

	// Starting the browser and routing downloads in one shot also
	// surfaces launch failures (bad exec path, dead display) early.
	if err := chromedp.Run(browserCtx,
		cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(downloadDir),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	return s, nil
}

// Close releases the browser and all derived contexts
func (s *Session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
}

// Config returns the suite configuration the session was built with
func (s *Session) Config() *common.Config {
	return s.cfg
}

// DownloadDir returns the directory delivery downloads land in
func (s *Session) DownloadDir() string {
	return s.downloadDir
}

// Run executes chromedp actions on the session context
func (s *Session) Run(actions ...chromedp.Action) error {
	return chromedp.Run(s.Ctx, actions...)
}

// Navigate loads a URL, honouring the politeness delay between navigations
func (s *Session) Navigate(url string) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(s.Ctx); err != nil {
			return fmt.Errorf("navigation pacing interrupted: %w", err)
		}
	}
	if err := chromedp.Run(s.Ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Title returns the current page title
func (s *Session) Title() (string, error) {
	var title string
	err := chromedp.Run(s.Ctx, chromedp.Title(&title))
	return title, err
}

// CurrentURL returns the current page location
func (s *Session) CurrentURL() (string, error) {
	var url string
	err := chromedp.Run(s.Ctx, chromedp.Location(&url))
	return url, err
}

// PageSource returns the rendered DOM as HTML
func (s *Session) PageSource() (string, error) {
	var html string
	err := chromedp.Run(s.Ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// CaptureScreenshot captures a screenshot of the current viewport
func (s *Session) CaptureScreenshot() ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(s.Ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}
