package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Selector is a single way of finding an element
type Selector struct {
	Value string
	XPath bool
}

// Css builds a CSS selector
func Css(value string) Selector {
	return Selector{Value: value}
}

// XPath builds an XPath selector
func XPath(value string) Selector {
	return Selector{Value: value, XPath: true}
}

// Locator is a named, ordered chain of fallback selectors for one UI
// element. The site ships frequent markup changes, so most elements carry
// a current selector plus one or two known older ones. Operations try
// each selector in order with a bounded wait; the first match wins.
type Locator struct {
	Name      string
	Selectors []Selector
}

// NewLocator creates a locator from an ordered selector chain
func NewLocator(name string, selectors ...Selector) Locator {
	return Locator{Name: name, Selectors: selectors}
}

func (sel Selector) option() chromedp.QueryOption {
	if sel.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// perSelectorTimeout splits the overall wait across the fallback chain,
// keeping a floor so a single slow element cannot starve later selectors
func (l Locator) perSelectorTimeout(total time.Duration) time.Duration {
	per := total / time.Duration(len(l.Selectors))
	if per < 2*time.Second {
		per = 2 * time.Second
	}
	return per
}

func (l Locator) exhausted() error {
	values := make([]string, 0, len(l.Selectors))
	for _, sel := range l.Selectors {
		values = append(values, sel.Value)
	}
	return fmt.Errorf("locator %q: no selector matched, tried: %s", l.Name, strings.Join(values, " | "))
}

// tryEach runs build(selector) against each selector in order until one
// succeeds within its share of the timeout
func (l Locator) tryEach(ctx context.Context, timeout time.Duration, build func(Selector) chromedp.Action) error {
	if len(l.Selectors) == 0 {
		return fmt.Errorf("locator %q has no selectors", l.Name)
	}

	per := l.perSelectorTimeout(timeout)
	var lastErr error
	for _, sel := range l.Selectors {
		selCtx, cancel := context.WithTimeout(ctx, per)
		err := chromedp.Run(selCtx, build(sel))
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("locator %q: %w", l.Name, ctx.Err())
		}
		lastErr = err
	}
	return fmt.Errorf("%w (last error: %v)", l.exhausted(), lastErr)
}

// WaitVisible waits until the element is visible
func (l Locator) WaitVisible(ctx context.Context, timeout time.Duration) error {
	return l.tryEach(ctx, timeout, func(sel Selector) chromedp.Action {
		return chromedp.WaitVisible(sel.Value, sel.option())
	})
}

// Click waits for the element and clicks it
func (l Locator) Click(ctx context.Context, timeout time.Duration) error {
	return l.tryEach(ctx, timeout, func(sel Selector) chromedp.Action {
		return chromedp.Tasks{
			chromedp.WaitVisible(sel.Value, sel.option()),
			chromedp.Click(sel.Value, sel.option()),
		}
	})
}

// SetValue waits for the element, clears it and types the value
func (l Locator) SetValue(ctx context.Context, timeout time.Duration, value string) error {
	return l.tryEach(ctx, timeout, func(sel Selector) chromedp.Action {
		return chromedp.Tasks{
			chromedp.WaitVisible(sel.Value, sel.option()),
			chromedp.Clear(sel.Value, sel.option()),
			chromedp.SendKeys(sel.Value, value, sel.option()),
		}
	})
}

// Text waits for the element and returns its text content
func (l Locator) Text(ctx context.Context, timeout time.Duration) (string, error) {
	var text string
	err := l.tryEach(ctx, timeout, func(sel Selector) chromedp.Action {
		return chromedp.Tasks{
			chromedp.WaitVisible(sel.Value, sel.option()),
			chromedp.Text(sel.Value, &text, sel.option()),
		}
	})
	return strings.TrimSpace(text), err
}

// Exists reports whether any selector in the chain currently matches a
// node, without waiting for visibility. Used for negative assertions.
func (l Locator) Exists(ctx context.Context) (bool, error) {
	for _, sel := range l.Selectors {
		if sel.XPath {
			var count int
			script := fmt.Sprintf(
				`document.evaluate(%q, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength`,
				sel.Value)
			if err := chromedp.Run(ctx, chromedp.Evaluate(script, &count)); err != nil {
				return false, err
			}
			if count > 0 {
				return true, nil
			}
			continue
		}

		var count int
		script := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel.Value)
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &count)); err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
