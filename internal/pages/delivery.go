package pages

import (
	"fmt"
	"time"

	"github.com/ternarybob/iudex/internal/browser"
)

// DeliveryMode selects how a document leaves the site
type DeliveryMode string

const (
	DeliveryEmail    DeliveryMode = "email"
	DeliveryDownload DeliveryMode = "download"
	DeliveryPrint    DeliveryMode = "print"
)

// DeliveryPage drives the document delivery dialog (email, download, print)
type DeliveryPage struct {
	page

	emailIcon      browser.Locator
	downloadIcon   browser.Locator
	printIcon      browser.Locator
	modal          browser.Locator
	recipientInput browser.Locator
	confirmButton  browser.Locator
	successNotice  browser.Locator
}

// NewDeliveryPage creates the delivery page object
func NewDeliveryPage(s *browser.Session) *DeliveryPage {
	return &DeliveryPage{
		page: page{s: s},
		emailIcon: browser.NewLocator("deliveryEmailIcon",
			browser.Css("#deliveryLinkRow1Email"),
			browser.Css("a.co_deliveryEmail"),
			browser.XPath("//a[contains(@title,'Email')]"),
		),
		downloadIcon: browser.NewLocator("deliveryDownloadIcon",
			browser.Css("#deliveryLinkRow1Download"),
			browser.Css("a.co_deliveryDownload"),
			browser.XPath("//a[contains(@title,'Download')]"),
		),
		printIcon: browser.NewLocator("deliveryPrintIcon",
			browser.Css("#deliveryLinkRow1Print"),
			browser.Css("a.co_deliveryPrint"),
			browser.XPath("//a[contains(@title,'Print')]"),
		),
		modal: browser.NewLocator("deliveryModal",
			browser.Css("#co_deliveryModal"),
			browser.Css(".co_deliveryDialog"),
		),
		recipientInput: browser.NewLocator("deliveryRecipientInput",
			browser.Css("#coid_deliveryEmail_addressInput"),
			browser.Css("#co_deliveryModal input[type='email']"),
		),
		confirmButton: browser.NewLocator("deliveryConfirmButton",
			browser.Css("#co_deliveryModalConfirm"),
			browser.Css("#co_deliveryModal .co_primaryBtn"),
		),
		successNotice: browser.NewLocator("deliverySuccessNotice",
			browser.Css("#co_deliverySuccess"),
			browser.Css(".co_deliveryStatusMessage"),
		),
	}
}

// OpenDialog opens the delivery dialog in the requested mode
func (p *DeliveryPage) OpenDialog(mode DeliveryMode) error {
	var icon browser.Locator
	switch mode {
	case DeliveryEmail:
		icon = p.emailIcon
	case DeliveryDownload:
		icon = p.downloadIcon
	case DeliveryPrint:
		icon = p.printIcon
	default:
		return fmt.Errorf("unknown delivery mode %q", mode)
	}

	if err := p.click(icon); err != nil {
		return fmt.Errorf("open %s delivery: %w", mode, err)
	}
	if err := p.waitVisible(p.modal); err != nil {
		return fmt.Errorf("%s delivery dialog did not open: %w", mode, err)
	}
	return nil
}

// SetEmailRecipient fills the recipient address in the email dialog
func (p *DeliveryPage) SetEmailRecipient(address string) error {
	if err := p.setValue(p.recipientInput, address); err != nil {
		return fmt.Errorf("set delivery recipient: %w", err)
	}
	return nil
}

// ConfirmButtonLabel returns the dialog's primary button text.
// The label names the mode ("Email", "Download", "Print"), which the
// delivery tests assert on.
func (p *DeliveryPage) ConfirmButtonLabel() (string, error) {
	return p.text(p.confirmButton)
}

// Confirm submits the delivery dialog
func (p *DeliveryPage) Confirm() error {
	if err := p.click(p.confirmButton); err != nil {
		return fmt.Errorf("confirm delivery: %w", err)
	}
	return nil
}

// WaitForSuccessNotice waits for the post-delivery status message
func (p *DeliveryPage) WaitForSuccessNotice() (string, error) {
	if err := p.waitVisible(p.successNotice); err != nil {
		return "", fmt.Errorf("delivery status did not appear: %w", err)
	}
	return p.text(p.successNotice)
}

// WaitForDownload waits for the delivery download started after `since`
// to land in the session download directory and returns the file path
func (p *DeliveryPage) WaitForDownload(since time.Time) (string, error) {
	timeout := p.s.Config().Timeouts.Download
	return browser.WaitForDownload(p.s.DownloadDir(), since, timeout)
}
