// uitest_context.go - Shared UI test context and helpers.
// Provides UITestContext used by all tests in this suite.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/iudex/internal/artifacts"
	"github.com/ternarybob/iudex/internal/browser"
	"github.com/ternarybob/iudex/internal/pages"
	"github.com/ternarybob/iudex/internal/users"
)

// siteReachable is set by TestMain; tests skip instead of failing when
// the target environment is down
var siteReachable bool

// requireSite skips the calling test when the site is unreachable
func requireSite(t *testing.T) {
	t.Helper()
	if !siteReachable {
		t.Skip("target site not reachable")
	}
}

// UITestContext holds shared state for one UI test: the browser
// session, the assigned credential and the cleanup stack
type UITestContext struct {
	T       *testing.T
	Env     *TestEnvironment
	Session *browser.Session
	User    users.Credential

	cancelTimeout context.CancelFunc
	cleanup       []func()
	screenshotNum int
}

// NewUITestContext acquires a credential, starts a browser session and
// registers cleanup. Call Cleanup with defer.
func NewUITestContext(t *testing.T) *UITestContext {
	t.Helper()
	requireSite(t)

	env, err := GetTestEnvironment()
	if err != nil {
		t.Fatalf("Failed to setup test environment: %v", err)
	}

	user, err := env.Pool.Acquire()
	if err != nil {
		t.Fatalf("Failed to acquire test credential: %v", err)
	}

	ctx, cancelTimeout := context.WithTimeout(context.Background(), env.Config.Timeouts.Test)

	session, err := browser.NewSession(ctx, env.Config)
	if err != nil {
		cancelTimeout()
		env.Pool.Release(user)
		t.Fatalf("Failed to start browser session: %v", err)
	}

	utc := &UITestContext{
		T:             t,
		Env:           env,
		Session:       session,
		User:          user,
		cancelTimeout: cancelTimeout,
	}

	// Cleanup runs in reverse order (LIFO)
	utc.cleanup = append(utc.cleanup, func() { env.Pool.Release(user) })
	utc.cleanup = append(utc.cleanup, cancelTimeout)
	utc.cleanup = append(utc.cleanup, session.Close)
	utc.cleanup = append(utc.cleanup, utc.signOutBestEffort)
	utc.cleanup = append(utc.cleanup, utc.captureOnFailure)

	return utc
}

// Cleanup releases all resources and captures failure artifacts
func (utc *UITestContext) Cleanup() {
	for i := len(utc.cleanup) - 1; i >= 0; i-- {
		utc.cleanup[i]()
	}
}

// captureOnFailure writes screenshot, page source and banner analysis
// for failed tests before the session goes away
func (utc *UITestContext) captureOnFailure() {
	if !utc.T.Failed() {
		return
	}

	name := sanitizeName(utc.T.Name()) + "_failure"
	if err := artifacts.Capture(utc.Session, utc.Env.ResultsDir, name); err != nil {
		utc.T.Logf("Failed to capture failure artifacts: %v", err)
		return
	}

	if source, err := utc.Session.PageSource(); err == nil {
		if banners, err := artifacts.ExtractErrorBanners(source); err == nil && len(banners) > 0 {
			utc.T.Logf("Page error banners at failure: %s", strings.Join(banners, " | "))
		}
		if headings, err := artifacts.PageHeadings(source); err == nil && len(headings) > 0 {
			utc.T.Logf("Page headings at failure: %s", strings.Join(headings, " | "))
		}
	}
}

// signOutBestEffort logs out the assigned user so the session does not
// linger server-side. Sign-out failures never fail the test.
func (utc *UITestContext) signOutBestEffort() {
	if err := utc.Login().SignOut(); err != nil {
		utc.T.Logf("Sign-out during cleanup failed (ignored): %v", err)
	}
}

// Screenshot takes a screenshot with a sequential number prefix so the
// results directory reads in execution order
func (utc *UITestContext) Screenshot(name string) {
	utc.screenshotNum++
	fullName := fmt.Sprintf("%02d_%s", utc.screenshotNum, sanitizeName(name))

	path := filepath.Join(utc.Env.ResultsDir, "screenshots", fullName+".png")
	if err := saveScreenshot(utc.Session, path); err != nil {
		utc.T.Logf("Screenshot %s failed: %v", fullName, err)
	}
}

// RetryStep runs step with transient-failure retry. Between attempts
// the browser is killed and a fresh session is started, so steps must
// begin from navigation, not from prior page state. Wrap assertion
// failures in browser.Permanent inside step.
func (utc *UITestContext) RetryStep(name string, step func(attempt int) error) error {
	return browser.Do(utc.Env.Logger, browser.MaxAttempts,
		func(attempt int) error {
			if attempt > 1 {
				utc.Env.Logger.Warn().
					Str("step", name).
					Int("attempt", attempt).
					Msg("Retrying step after transient failure")
			}
			return step(attempt)
		},
		utc.restartSession,
	)
}

// restartSession replaces the browser session after a transient failure
func (utc *UITestContext) restartSession() error {
	utc.Session.Close()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), utc.Env.Config.Timeouts.Test)

	session, err := browser.NewSession(ctx, utc.Env.Config)
	if err != nil {
		cancelTimeout()
		return fmt.Errorf("failed to restart browser session: %w", err)
	}

	// Swap the timeout cancel so Cleanup releases the new context
	utc.cancelTimeout()
	utc.cancelTimeout = cancelTimeout
	utc.cleanup[1] = cancelTimeout
	utc.Session = session
	utc.cleanup[2] = session.Close
	return nil
}

// LoginAs opens the sign-on page and logs in with the assigned user
func (utc *UITestContext) LoginAs() error {
	login := utc.Login()
	if err := login.Open(); err != nil {
		return err
	}
	utc.Home().DismissCookieBanner()
	if err := login.Login(utc.User.Username, utc.User.Password); err != nil {
		return err
	}
	return login.WaitLoggedIn()
}

// Page object accessors, one session-bound instance per call

func (utc *UITestContext) Home() *pages.HomePage { return pages.NewHomePage(utc.Session) }

func (utc *UITestContext) Login() *pages.LoginPage { return pages.NewLoginPage(utc.Session) }

func (utc *UITestContext) Dashboard() *pages.DashboardPage {
	return pages.NewDashboardPage(utc.Session)
}

func (utc *UITestContext) PracticeArea() *pages.PracticeAreaPage {
	return pages.NewPracticeAreaPage(utc.Session)
}

func (utc *UITestContext) Favourites() *pages.FavouritesPage {
	return pages.NewFavouritesPage(utc.Session)
}

func (utc *UITestContext) Delivery() *pages.DeliveryPage {
	return pages.NewDeliveryPage(utc.Session)
}

func (utc *UITestContext) StartPage() *pages.StartPagePage {
	return pages.NewStartPagePage(utc.Session)
}

// sanitizeName converts a test or step name to a safe filename
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return strings.ToLower(replacer.Replace(name))
}

// uniqueGroupName returns a favourites group name unique to this run
func uniqueGroupName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
