package pages

import (
	"github.com/ternarybob/iudex/internal/browser"
)

// HomePage is the public landing page before sign-in
type HomePage struct {
	page

	searchBox    browser.Locator
	signInLink   browser.Locator
	cookieAccept browser.Locator
}

// NewHomePage creates the home page object
func NewHomePage(s *browser.Session) *HomePage {
	return &HomePage{
		page: page{s: s},
		searchBox: browser.NewLocator("searchBox",
			browser.Css("#searchInputId"),
			browser.Css(".co_searchBoxContainer input[type='text']"),
		),
		signInLink: browser.NewLocator("signInLink",
			browser.Css("#signInLink"),
			browser.XPath("//a[contains(normalize-space(.),'Sign in')]"),
		),
		cookieAccept: browser.NewLocator("cookieAccept",
			browser.Css("#onetrust-accept-btn-handler"),
			browser.Css(".optanon-allow-all"),
		),
	}
}

// Open navigates to the Practical Law landing page
func (p *HomePage) Open() error {
	return p.s.Navigate(p.s.Config().Target().BaseURL)
}

// DismissCookieBanner accepts the cookie consent dialog when present.
// The banner only shows on a fresh browser profile, so absence is fine.
func (p *HomePage) DismissCookieBanner() error {
	present, err := p.exists(p.cookieAccept)
	if err != nil || !present {
		return err
	}
	return p.click(p.cookieAccept)
}

// IsLoaded waits for the search box that anchors the landing page
func (p *HomePage) IsLoaded() error {
	return p.waitVisible(p.searchBox)
}

// Title returns the browser title
func (p *HomePage) Title() (string, error) {
	return p.s.Title()
}

// ClickSignIn follows the sign-in link toward the sign-on page
func (p *HomePage) ClickSignIn() error {
	return p.click(p.signInLink)
}
