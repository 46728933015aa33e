// -----------------------------------------------------------------------
// Failure artifacts - screenshot, page source and derived analysis
// captured before a test failure propagates to the runner
// -----------------------------------------------------------------------

package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/iudex/internal/browser"
)

// errorBannerSelectors are the site's known error/alert containers
var errorBannerSelectors = []string{
	".message-error",
	"#errorMessages",
	".alert-danger",
	".co_errorContainer",
	"[role='alert']",
}

// Capture writes a screenshot, the page source and a markdown snapshot
// of the current page into dir, all named after the failing step.
// Capture is best-effort: it returns the first error but writes as many
// artifacts as it can.
func Capture(s *browser.Session, dir, name string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	var firstErr error

	if buf, err := s.CaptureScreenshot(); err != nil {
		firstErr = err
	} else if err := os.WriteFile(filepath.Join(dir, name+".png"), buf, 0644); err != nil && firstErr == nil {
		firstErr = err
	}

	html, err := s.PageSource()
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(html), 0644); err != nil && firstErr == nil {
		firstErr = err
	}

	// A markdown rendering of the DOM diffs far better than raw HTML
	// when triaging selector drift between runs
	if markdown, err := SourceToMarkdown(html); err == nil {
		if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(markdown), 0644); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// ExtractErrorBanners pulls the visible error/alert texts out of a page
// source so failure logs carry the site's own message, not just a
// selector timeout
func ExtractErrorBanners(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page source: %w", err)
	}

	var banners []string
	seen := make(map[string]bool)
	for _, selector := range errorBannerSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text != "" && !seen[text] {
				seen[text] = true
				banners = append(banners, text)
			}
		})
	}
	return banners, nil
}

// PageHeadings returns the h1/h2 texts from a page source, used in
// failure summaries to show where the browser actually was
func PageHeadings(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page source: %w", err)
	}

	var headings []string
	doc.Find("h1, h2").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	return headings, nil
}

// SourceToMarkdown converts captured page HTML to readable markdown
func SourceToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert page source to markdown: %w", err)
	}
	return markdown, nil
}
