package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/iudex/internal/artifacts"
	"github.com/ternarybob/iudex/internal/mailbox"
	"github.com/ternarybob/iudex/internal/pages"
)

// openDocumentForDelivery signs in and navigates to a document page
// with the delivery toolbar
func openDocumentForDelivery(t *testing.T, utc *UITestContext) {
	t.Helper()

	require.NoError(t, utc.LoginAs())
	require.NoError(t, utc.Dashboard().WaitLoaded())
	require.NoError(t, utc.Dashboard().OpenPracticeArea(practiceAreaUnderTest))

	area := utc.PracticeArea()
	require.NoError(t, area.WaitLoaded())

	topics, err := area.TopicTitles()
	require.NoError(t, err)
	require.NotEmpty(t, topics)
	require.NoError(t, area.OpenTopic(topics[0]))
}

// TestDownloadDelivery downloads the open document and validates the
// delivered file is a well-formed PDF
func TestDownloadDelivery(t *testing.T) {
	utc := NewUITestContext(t)
	defer utc.Cleanup()

	openDocumentForDelivery(t, utc)
	utc.Screenshot("document_open")

	delivery := utc.Delivery()
	started := time.Now()

	require.NoError(t, delivery.OpenDialog(pages.DeliveryDownload))
	utc.Screenshot("download_dialog")
	require.NoError(t, delivery.Confirm())

	path, err := delivery.WaitForDownload(started)
	require.NoError(t, err, "download did not complete")

	info, err := artifacts.ValidatePDF(path)
	require.NoError(t, err)
	assert.Greater(t, info.PageCount, 0)
	utc.Env.Logger.Info().Str("file", path).Int("pages", info.PageCount).Msg("Download validated")
}

// TestEmailDelivery emails the open document to the delivery mailbox
// and polls IMAP until the message with an attachment arrives. Skipped
// when no mailbox is configured.
func TestEmailDelivery(t *testing.T) {
	utc := NewUITestContext(t)
	defer utc.Cleanup()

	mail := mailbox.NewClient(utc.Env.Config.Delivery, utc.Env.Logger)
	if !mail.IsConfigured() {
		t.Skip("delivery mailbox not configured")
	}

	openDocumentForDelivery(t, utc)
	sentAt := time.Now()

	delivery := utc.Delivery()
	require.NoError(t, delivery.OpenDialog(pages.DeliveryEmail))
	require.NoError(t, delivery.SetEmailRecipient(utc.Env.Config.Delivery.IMAPUsername))
	utc.Screenshot("email_dialog")
	require.NoError(t, delivery.Confirm())

	notice, err := delivery.WaitForSuccessNotice()
	require.NoError(t, err)
	assert.NotEmpty(t, notice)

	msg, err := mail.WaitForMessage("Practical Law", sentAt)
	require.NoError(t, err, "delivery email did not arrive")
	assert.NotEmpty(t, msg.Attachments, "delivery email should carry the document attachment")
}

// TestPrintDialog opens the print delivery dialog and asserts the
// confirm button is labelled for printing. Actually printing is out of
// reach headless, the dialog wiring is what regresses.
func TestPrintDialog(t *testing.T) {
	utc := NewUITestContext(t)
	defer utc.Cleanup()

	openDocumentForDelivery(t, utc)

	delivery := utc.Delivery()
	require.NoError(t, delivery.OpenDialog(pages.DeliveryPrint))
	utc.Screenshot("print_dialog")

	label, err := delivery.ConfirmButtonLabel()
	require.NoError(t, err)
	assert.Contains(t, label, "Print")
}
