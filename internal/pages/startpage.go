package pages

import (
	"fmt"
	"strings"

	"github.com/ternarybob/iudex/internal/browser"
)

// Labels the start-page button cycles through. Tests assert the exact
// text, which is how the site communicates start-page state.
const (
	MakeStartPageLabel    = "Make this my start page"
	CurrentStartPageLabel = "This is your start page"
)

// StartPagePage drives the start-page preference on practice-area pages
type StartPagePage struct {
	page

	startPageButton browser.Locator
	resetLink       browser.Locator
	preferencesLink browser.Locator
}

// NewStartPagePage creates the start-page page object
func NewStartPagePage(s *browser.Session) *StartPagePage {
	return &StartPagePage{
		page: page{s: s},
		startPageButton: browser.NewLocator("startPageButton",
			browser.Css("#coid_makeStartPage"),
			browser.Css("a.co_startPageLink"),
			browser.XPath("//a[contains(normalize-space(.),'start page')]"),
		),
		resetLink: browser.NewLocator("startPageResetLink",
			browser.Css("#co_preferences_startPageReset"),
			browser.XPath("//a[contains(normalize-space(.),'Reset to default')]"),
		),
		preferencesLink: browser.NewLocator("preferencesLink",
			browser.Css("#co_preferencesContainer a"),
			browser.XPath("//a[normalize-space(text())='Preferences']"),
		),
	}
}

// ButtonLabel returns the start-page button text on the current page
func (p *StartPagePage) ButtonLabel() (string, error) {
	return p.text(p.startPageButton)
}

// MakeStartPage sets the current practice-area page as the user's start
// page and verifies the button label flips
func (p *StartPagePage) MakeStartPage() error {
	label, err := p.ButtonLabel()
	if err != nil {
		return fmt.Errorf("make start page: %w", err)
	}
	if strings.EqualFold(label, CurrentStartPageLabel) {
		// Already the start page, nothing to do
		return nil
	}

	if err := p.click(p.startPageButton); err != nil {
		return fmt.Errorf("make start page: %w", err)
	}

	label, err = p.ButtonLabel()
	if err != nil {
		return fmt.Errorf("make start page verification: %w", err)
	}
	if !strings.EqualFold(label, CurrentStartPageLabel) {
		return fmt.Errorf("start page button still reads %q after click", label)
	}
	return nil
}

// IsStartPage reports whether the current page is the configured start page
func (p *StartPagePage) IsStartPage() (bool, error) {
	label, err := p.ButtonLabel()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(label, CurrentStartPageLabel), nil
}

// ResetToDefault restores the default start page via Preferences
func (p *StartPagePage) ResetToDefault() error {
	if err := p.click(p.preferencesLink); err != nil {
		return fmt.Errorf("reset start page: %w", err)
	}
	if err := p.click(p.resetLink); err != nil {
		return fmt.Errorf("reset start page: %w", err)
	}
	return nil
}
