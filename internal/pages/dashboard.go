package pages

import (
	"fmt"
	"strings"

	"github.com/ternarybob/iudex/internal/browser"
)

// DashboardPage is the signed-in home view with the practice-area browse box
type DashboardPage struct {
	page

	container       browser.Locator
	userDisplayName browser.Locator
	browseBox       browser.Locator
}

// NewDashboardPage creates the dashboard page object
func NewDashboardPage(s *browser.Session) *DashboardPage {
	return &DashboardPage{
		page: page{s: s},
		container: browser.NewLocator("dashboardContainer",
			browser.Css("#co_homeContainer"),
			browser.Css("#cobalt_homepage"),
		),
		userDisplayName: browser.NewLocator("userDisplayName",
			browser.Css("#co_signedInUser"),
			browser.Css("#co_signedInUserContainer .co_userName"),
		),
		browseBox: browser.NewLocator("practiceAreaBrowseBox",
			browser.Css("#coid_categoryBoxTabPanel1"),
			browser.Css(".co_categoryBoxContainer"),
		),
	}
}

// WaitLoaded blocks until the dashboard container renders
func (p *DashboardPage) WaitLoaded() error {
	return p.waitVisible(p.container)
}

// UserDisplayName returns the signed-in user's display name from the header
func (p *DashboardPage) UserDisplayName() (string, error) {
	return p.text(p.userDisplayName)
}

// PracticeAreaNames lists the practice areas shown in the browse box
func (p *DashboardPage) PracticeAreaNames() ([]string, error) {
	if err := p.waitVisible(p.browseBox); err != nil {
		return nil, err
	}
	return p.textList(`Array.from(
		document.querySelectorAll('#coid_categoryBoxTabPanel1 a, .co_categoryBoxContainer a')
	).map(a => a.textContent.trim()).filter(t => t.length > 0)`)
}

// OpenPracticeArea clicks the named practice-area link in the browse box
func (p *DashboardPage) OpenPracticeArea(name string) error {
	loc := browser.NewLocator(fmt.Sprintf("practiceArea[%s]", name),
		browser.XPath(fmt.Sprintf("//div[@id='coid_categoryBoxTabPanel1']//a[normalize-space(text())=%s]", xpathString(name))),
		browser.XPath(fmt.Sprintf("//div[contains(@class,'co_categoryBoxContainer')]//a[normalize-space(text())=%s]", xpathString(name))),
	)
	if err := p.click(loc); err != nil {
		return fmt.Errorf("failed to open practice area %q: %w", name, err)
	}
	return nil
}

// xpathString quotes a literal for use inside an XPath expression,
// handling names that contain apostrophes (e.g. "Trusts' Administration")
func xpathString(value string) string {
	if !strings.Contains(value, "'") {
		return "'" + value + "'"
	}
	parts := strings.Split(value, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
