package pages

import (
	"fmt"
	"strings"

	"github.com/ternarybob/iudex/internal/browser"
)

// PracticeAreaPage is an individual practice-area landing page
// (e.g. Employment, Corporate, Dispute Resolution)
type PracticeAreaPage struct {
	page

	header     browser.Locator
	breadcrumb browser.Locator
	topicList  browser.Locator
}

// NewPracticeAreaPage creates the practice-area page object
func NewPracticeAreaPage(s *browser.Session) *PracticeAreaPage {
	return &PracticeAreaPage{
		page: page{s: s},
		header: browser.NewLocator("practiceAreaHeader",
			browser.Css("h1.co_categoryBoxHeader"),
			browser.Css("#co_browsePageHeader h1"),
		),
		breadcrumb: browser.NewLocator("breadcrumb",
			browser.Css("#co_browseBreadcrumbs"),
			browser.Css(".co_breadcrumbContainer"),
		),
		topicList: browser.NewLocator("topicList",
			browser.Css("#coid_categoryBoxContents"),
			browser.Css(".co_browseList"),
		),
	}
}

// WaitLoaded blocks until the practice-area header renders
func (p *PracticeAreaPage) WaitLoaded() error {
	return p.waitVisible(p.header)
}

// HeaderText returns the practice-area page heading
func (p *PracticeAreaPage) HeaderText() (string, error) {
	return p.text(p.header)
}

// IsOpen reports whether the named practice area is the one on screen,
// checking both the heading and the URL slug
func (p *PracticeAreaPage) IsOpen(name string) (bool, error) {
	header, err := p.HeaderText()
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(strings.TrimSpace(header), name) {
		return false, nil
	}

	url, err := p.s.CurrentURL()
	if err != nil {
		return false, err
	}
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return strings.Contains(strings.ToLower(url), "browse") || strings.Contains(strings.ToLower(url), slug), nil
}

// Breadcrumb returns the breadcrumb trail text
func (p *PracticeAreaPage) Breadcrumb() (string, error) {
	return p.text(p.breadcrumb)
}

// TopicTitles lists the topics shown under the practice area
func (p *PracticeAreaPage) TopicTitles() ([]string, error) {
	if err := p.waitVisible(p.topicList); err != nil {
		return nil, err
	}
	return p.textList(`Array.from(
		document.querySelectorAll('#coid_categoryBoxContents a, .co_browseList a')
	).map(a => a.textContent.trim()).filter(t => t.length > 0)`)
}

// OpenTopic clicks the named topic within the practice area
func (p *PracticeAreaPage) OpenTopic(name string) error {
	loc := browser.NewLocator(fmt.Sprintf("topic[%s]", name),
		browser.XPath(fmt.Sprintf("//div[@id='coid_categoryBoxContents']//a[normalize-space(text())=%s]", xpathString(name))),
		browser.XPath(fmt.Sprintf("//ul[contains(@class,'co_browseList')]//a[normalize-space(text())=%s]", xpathString(name))),
	)
	if err := p.click(loc); err != nil {
		return fmt.Errorf("failed to open topic %q: %w", name, err)
	}
	return nil
}
