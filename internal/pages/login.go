package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ternarybob/iudex/internal/browser"
)

// LoginPage drives the OnePass sign-on flow in front of Practical Law
type LoginPage struct {
	page

	usernameInput  browser.Locator
	passwordInput  browser.Locator
	signInButton   browser.Locator
	errorBanner    browser.Locator
	signedInHeader browser.Locator
	userMenu       browser.Locator
	signOutLink    browser.Locator
}

// NewLoginPage creates the login page object
func NewLoginPage(s *browser.Session) *LoginPage {
	return &LoginPage{
		page: page{s: s},
		usernameInput: browser.NewLocator("usernameInput",
			browser.Css("#Username"),
			browser.Css("input[name='Username']"),
		),
		passwordInput: browser.NewLocator("passwordInput",
			browser.Css("#Password"),
			browser.Css("input[name='Password']"),
		),
		signInButton: browser.NewLocator("signInButton",
			browser.Css("#SignIn"),
			browser.Css("button[name='SignIn']"),
			browser.XPath("//button[@type='submit' and contains(normalize-space(.),'Sign in')]"),
		),
		errorBanner: browser.NewLocator("errorBanner",
			browser.Css(".message-error"),
			browser.Css("#errorMessages"),
			browser.Css(".alert.alert-danger"),
		),
		signedInHeader: browser.NewLocator("signedInHeader",
			browser.Css("#co_headerWrapper"),
			browser.Css("#co_pageHeader"),
		),
		userMenu: browser.NewLocator("userMenu",
			browser.Css("#co_signedInUserContainer"),
			browser.Css("#co_clientIDMenu"),
			browser.XPath("//div[contains(@class,'co_headerUser')]"),
		),
		signOutLink: browser.NewLocator("signOutLink",
			browser.Css("#co_signOutContainer a"),
			browser.XPath("//a[contains(normalize-space(.),'Sign out')]"),
		),
	}
}

// Open navigates to the sign-on page for the configured environment
func (p *LoginPage) Open() error {
	target := p.s.Config().Target()
	if err := p.s.Navigate(target.SignOnURL); err != nil {
		return err
	}
	return p.waitVisible(p.usernameInput)
}

// Login submits credentials and waits for the signed-in header.
// The caller decides whether a login failure is a test failure or an
// expected negative-path outcome (see ErrorBanner).
func (p *LoginPage) Login(username, password string) error {
	if err := p.setValue(p.usernameInput, username); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.setValue(p.passwordInput, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.click(p.signInButton); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// WaitLoggedIn blocks until the authenticated header renders
func (p *LoginPage) WaitLoggedIn() error {
	if err := p.waitVisible(p.signedInHeader); err != nil {
		return fmt.Errorf("signed-in header did not appear: %w", err)
	}
	return nil
}

// IsUserLoggedIn reports whether an authenticated session is active
func (p *LoginPage) IsUserLoggedIn() (bool, error) {
	return p.exists(p.userMenu)
}

// ErrorBanner returns the sign-on error text shown for bad credentials
func (p *LoginPage) ErrorBanner() (string, error) {
	return p.text(p.errorBanner)
}

// SignOut ends the session via the user menu. Callers performing
// teardown log and swallow the returned error so cleanup never masks
// the primary test outcome.
func (p *LoginPage) SignOut() error {
	if err := p.click(p.userMenu); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := p.click(p.signOutLink); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	// The site bounces through an interstitial before landing back on
	// the sign-on form
	if err := chromedp.Run(p.s.Ctx, chromedp.Sleep(1*time.Second)); err != nil {
		return err
	}

	loggedIn, err := p.IsUserLoggedIn()
	if err != nil {
		return fmt.Errorf("sign out verification: %w", err)
	}
	if loggedIn {
		return fmt.Errorf("sign out did not end the session")
	}
	return nil
}

// IsOnSignOnPage reports whether the browser is sitting on the sign-on form
func (p *LoginPage) IsOnSignOnPage() (bool, error) {
	url, err := p.s.CurrentURL()
	if err != nil {
		return false, err
	}
	return strings.Contains(url, "signon"), nil
}
