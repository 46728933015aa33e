// -----------------------------------------------------------------------
// Delivery mailbox client - verifies document delivery emails over IMAP
// The delivery tests send documents to a dedicated test mailbox and poll
// it here until the message lands.
// -----------------------------------------------------------------------

package mailbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/iudex/internal/common"
)

// Email is a fetched delivery message
type Email struct {
	ID          uint32
	From        string
	Subject     string
	Body        string
	Date        time.Time
	Attachments []string // Attachment filenames
}

// Client reads the delivery test mailbox
type Client struct {
	cfg    common.DeliveryConfig
	logger arbor.ILogger
}

// NewClient creates a mailbox client from the delivery configuration
func NewClient(cfg common.DeliveryConfig, logger arbor.ILogger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// IsConfigured reports whether the mailbox has the minimum settings
func (c *Client) IsConfigured() bool {
	return c.cfg.IMAPHost != "" && c.cfg.IMAPUsername != "" && c.cfg.IMAPPassword != ""
}

// connect dials and authenticates an IMAP session
func (c *Client) connect() (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.cfg.IMAPHost, c.cfg.IMAPPort)

	var conn *client.Client
	var err error
	if c.cfg.IMAPUseTLS {
		conn, err = client.DialTLS(addr, nil)
	} else {
		conn, err = client.Dial(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := conn.Login(c.cfg.IMAPUsername, c.cfg.IMAPPassword); err != nil {
		conn.Logout()
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	return conn, nil
}

// FetchSince returns INBOX messages received on or after since whose
// subject contains subjectFilter (case-insensitive)
func (c *Client) FetchSince(subjectFilter string, since time.Time) ([]Email, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("delivery mailbox not configured")
	}

	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Logout()

	mbox, err := conn.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}
	if mbox.Messages == 0 {
		return []Email{}, nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since.Truncate(24 * time.Hour) // IMAP SINCE has day granularity

	seqNums, err := conn.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search INBOX: %w", err)
	}
	if len(seqNums) == 0 {
		return []Email{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, len(seqNums))

	done := make(chan error, 1)
	go func() {
		done <- conn.Fetch(seqSet, []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}, messages)
	}()

	var emails []Email
	for msg := range messages {
		if msg == nil || msg.Envelope == nil {
			continue
		}

		subject := msg.Envelope.Subject
		if subjectFilter != "" && !strings.Contains(strings.ToLower(subject), strings.ToLower(subjectFilter)) {
			continue
		}
		if msg.Envelope.Date.Before(since) {
			continue
		}

		body, attachments, err := c.parseMessage(msg, section)
		if err != nil {
			c.logger.Warn().Err(err).Int64("seq", int64(msg.SeqNum)).Msg("Failed to parse delivery message")
			continue
		}

		from := ""
		if len(msg.Envelope.From) > 0 {
			from = msg.Envelope.From[0].Address()
		}

		emails = append(emails, Email{
			ID:          msg.SeqNum,
			From:        from,
			Subject:     subject,
			Body:        body,
			Date:        msg.Envelope.Date,
			Attachments: attachments,
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return emails, nil
}

// WaitForMessage polls the mailbox until a matching delivery email
// arrives, bounded by the configured mail timeout
func (c *Client) WaitForMessage(subjectFilter string, since time.Time) (*Email, error) {
	deadline := time.Now().Add(c.cfg.MailTimeout)

	for time.Now().Before(deadline) {
		emails, err := c.FetchSince(subjectFilter, since)
		if err != nil {
			return nil, err
		}
		if len(emails) > 0 {
			c.logger.Info().
				Str("subject", emails[0].Subject).
				Int("attachments", len(emails[0].Attachments)).
				Msg("Delivery email received")
			return &emails[0], nil
		}
		time.Sleep(10 * time.Second)
	}

	return nil, fmt.Errorf("no delivery email matching %q arrived within %v", subjectFilter, c.cfg.MailTimeout)
}

// parseMessage extracts the text body and attachment filenames
func (c *Client) parseMessage(msg *imap.Message, section *imap.BodySectionName) (string, []string, error) {
	r := msg.GetBody(section)
	if r == nil {
		return "", nil, fmt.Errorf("no body section")
	}
	return parseMail(r)
}

// parseMail reads a raw RFC 5322 message and returns its text body and
// the attachment filenames
func parseMail(r io.Reader) (string, []string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	var body strings.Builder
	var attachments []string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to read mail part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			content, err := io.ReadAll(part.Body)
			if err == nil {
				body.Write(content)
			}
		case *mail.AttachmentHeader:
			filename, err := h.Filename()
			if err == nil && filename != "" {
				attachments = append(attachments, filename)
			}
		}
	}

	return body.String(), attachments, nil
}
