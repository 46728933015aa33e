// -----------------------------------------------------------------------
// Page objects for the Practical Law web application
// Each page wraps a locator catalogue and intention-revealing methods.
// Locators carry fallback chains because the site's markup shifts
// between releases; the first selector is always the current one.
// -----------------------------------------------------------------------

package pages

import (
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ternarybob/iudex/internal/browser"
)

// page is the shared base for all page objects
type page struct {
	s *browser.Session
}

func (p page) elementTimeout() time.Duration {
	return p.s.Config().Timeouts.Element
}

func (p page) pageTimeout() time.Duration {
	return p.s.Config().Timeouts.Page
}

func (p page) click(loc browser.Locator) error {
	return loc.Click(p.s.Ctx, p.elementTimeout())
}

func (p page) setValue(loc browser.Locator, value string) error {
	return loc.SetValue(p.s.Ctx, p.elementTimeout(), value)
}

func (p page) text(loc browser.Locator) (string, error) {
	return loc.Text(p.s.Ctx, p.elementTimeout())
}

func (p page) waitVisible(loc browser.Locator) error {
	return loc.WaitVisible(p.s.Ctx, p.pageTimeout())
}

func (p page) exists(loc browser.Locator) (bool, error) {
	return loc.Exists(p.s.Ctx)
}

// evaluate is a thin alias so page objects read naturally
func evaluate(script string, res interface{}) chromedp.Action {
	return chromedp.Evaluate(script, res)
}

// textList evaluates a script that returns an array of strings, used for
// reading navigation menus and result lists in one round trip
func (p page) textList(script string) ([]string, error) {
	var items []string
	if err := p.s.Run(chromedp.Evaluate(script, &items)); err != nil {
		return nil, fmt.Errorf("failed to read element texts: %w", err)
	}
	return items, nil
}
