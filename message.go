package mailkit

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment dispositions per RFC 2183.
const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

// Message represents a single email message ready for validation and delivery.
type Message struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string            // Message subject
	From        string            // Sender ("Name <email>" allowed)
	ReplyTo     string            // Reply-to address
	Body        string            // Plain text body
	HTML        string            // HTML body
	MessageID   string            // Message-ID header value
	To          []string          // Primary recipients
	CC          []string          // Carbon copy recipients
	BCC         []string          // Blind carbon copy recipients
	Attachments []Attachment      // File attachments
	Date        time.Time         // Date header; zero means "set at send time"
}

// Attachment represents a file attached to a message.
type Attachment struct {
	Filename    string // Display name; may be empty
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Content-ID for inline attachments
	Disposition string // "attachment" (default) or "inline"
	Content     []byte // Raw file content
}

// NewMessage creates a message with the given subject and recipients.
// Use Mailer.NewMessage to pick up the configured default sender.
func NewMessage(subject string, to ...string) *Message {
	return &Message{
		Subject:   subject,
		To:        append([]string(nil), to...),
		MessageID: newMessageID(),
		Date:      time.Now(),
	}
}

// AddRecipient appends an address to the primary recipient list.
func (m *Message) AddRecipient(addr string) {
	m.To = append(m.To, addr)
}

// AddCC appends an address to the carbon copy list.
func (m *Message) AddCC(addr string) {
	m.CC = append(m.CC, addr)
}

// AddBCC appends an address to the blind carbon copy list.
func (m *Message) AddBCC(addr string) {
	m.BCC = append(m.BCC, addr)
}

// Attach adds a regular attachment. Filename may be empty.
func (m *Message) Attach(filename, contentType string, content []byte) {
	m.Attachments = append(m.Attachments, Attachment{
		Filename:    filename,
		ContentType: contentType,
		Disposition: DispositionAttachment,
		Content:     content,
	})
}

// AttachInline adds an inline attachment referenced from the HTML body
// via "cid:" URLs.
func (m *Message) AttachInline(contentID, filename, contentType string, content []byte) {
	m.Attachments = append(m.Attachments, Attachment{
		Filename:    filename,
		ContentType: contentType,
		ContentID:   contentID,
		Disposition: DispositionInline,
		Content:     content,
	})
}

// SendTo returns the union of To, CC, and BCC with duplicates removed,
// preserving first-occurrence order. This is the full envelope recipient set.
func (m *Message) SendTo() []string {
	seen := make(map[string]struct{}, len(m.To)+len(m.CC)+len(m.BCC))
	out := make([]string, 0, len(m.To)+len(m.CC)+len(m.BCC))
	for _, list := range [][]string{m.To, m.CC, m.BCC} {
		for _, addr := range list {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

// Validate checks sending preconditions before any network I/O:
// a sender must be set, the recipient list must be non-empty, at least one
// body must be present, and no header value may contain CR or LF.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return ErrNoSender
	}
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.Body == "" && m.HTML == "" {
		return ErrNoBody
	}

	if err := checkHeader("subject", m.Subject); err != nil {
		return err
	}
	if err := checkHeader("sender", m.From); err != nil {
		return err
	}
	if err := checkHeader("reply-to", m.ReplyTo); err != nil {
		return err
	}
	for _, addr := range m.To {
		if err := checkHeader("recipient", addr); err != nil {
			return err
		}
	}
	for _, addr := range m.CC {
		if err := checkHeader("cc", addr); err != nil {
			return err
		}
	}
	for _, addr := range m.BCC {
		if err := checkHeader("bcc", addr); err != nil {
			return err
		}
	}
	for name, value := range m.Headers {
		if err := checkHeader(name, name); err != nil {
			return err
		}
		if err := checkHeader(name, value); err != nil {
			return err
		}
	}
	return nil
}

// checkHeader rejects header values containing CR or LF.
func checkHeader(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %s", ErrBadHeader, field)
	}
	return nil
}

// newMessageID generates an RFC 5322 Message-ID using a random UUID
// and the local hostname.
func newMessageID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), host)
}
