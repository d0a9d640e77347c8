package mailkit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	texttemplate "text/template"
	"time"
)

// Mailer provides high-level message sending bound to a delivery backend,
// an optional template renderer, and configuration defaults.
type Mailer struct {
	sender    Sender
	transport Transport // non-nil when the backend is connection-oriented
	renderer  *Renderer
	config    Config
	logger    *slog.Logger

	mu       sync.Mutex
	outboxes []*Outbox
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger used for send diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mailer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Mailer with the given backend and renderer. The renderer may
// be nil if templated sending is not used.
func New(sender Sender, renderer *Renderer, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
		logger:   slog.Default(),
	}
	if tr, ok := sender.(Transport); ok {
		m.transport = tr
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewMessage creates a message with the configured default sender applied.
func (m *Mailer) NewMessage(subject string, to ...string) *Message {
	msg := NewMessage(subject, to...)
	msg.From = m.config.DefaultSender
	return msg
}

// Send validates and delivers a single message. The configured default
// sender is applied when the message has none. In suppressed mode the backend
// is skipped but the message is still validated and recorded.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	if err := m.prepare(msg); err != nil {
		return err
	}

	if m.config.Suppress {
		m.logger.DebugContext(ctx, "mailkit: send suppressed",
			slog.String("subject", msg.Subject),
			slog.Int("recipients", len(msg.SendTo())),
		)
		m.record(msg)
		return nil
	}

	if err := m.deliver(ctx, msg); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	m.record(msg)
	return nil
}

// SendParams contains parameters for building and sending a message in one call.
type SendParams struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	Body        string
	HTML        string
	From        string // Override default sender
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// SendMessage builds a message from params and sends it.
func (m *Mailer) SendMessage(ctx context.Context, params SendParams) error {
	msg := NewMessage(params.Subject, params.To...)
	msg.Headers = params.Headers
	msg.Tags = params.Tags
	msg.Body = params.Body
	msg.HTML = params.HTML
	msg.From = params.From
	msg.ReplyTo = params.ReplyTo
	msg.CC = params.CC
	msg.BCC = params.BCC
	msg.Attachments = params.Attachments
	return m.Send(ctx, msg)
}

// TemplateParams contains parameters for sending a templated message.
type TemplateParams struct {
	To       string // Single recipient (most common case)
	Template string // Template filename (e.g., "welcome.md")
	Data     any    // Template data

	// Optional overrides
	Subject     string       // Override template subject
	Layout      string       // Override default layout
	From        string       // Override default sender
	ReplyTo     string       // Reply-to address
	CC          []string     // Carbon copy
	BCC         []string     // Blind carbon copy
	Tags        Tags         // Provider tags
	Attachments []Attachment // File attachments
}

// SendTemplate renders a markdown template and sends the result.
// Subject resolution: params.Subject > template frontmatter > config fallback.
func (m *Mailer) SendTemplate(ctx context.Context, params TemplateParams) error {
	if m.renderer == nil {
		return ErrNoRenderer
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if subjectFromMeta, ok := result.Metadata["Subject"].(string); ok {
			subject = subjectFromMeta
		} else {
			subject = m.config.FallbackSubject
		}
	}

	// Subject may itself contain {{.Variable}} placeholders.
	processedSubject, err := m.processSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	msg := NewMessage(processedSubject, params.To)
	msg.HTML = result.HTML
	msg.Body = result.Text
	msg.From = params.From
	msg.ReplyTo = params.ReplyTo
	msg.CC = params.CC
	msg.BCC = params.BCC
	msg.Tags = params.Tags
	msg.Attachments = params.Attachments
	return m.Send(ctx, msg)
}

// Connect acquires a bounded connection to the backend. The caller must
// release it with Close; all messages sent through the connection share one
// underlying transport connection, reconnecting after the configured maximum.
func (m *Mailer) Connect(ctx context.Context, opts ...ConnectOption) (*Connection, error) {
	tr := m.transport
	if tr == nil {
		tr = senderTransport{sender: m.sender}
	}

	conn := &Connection{
		mailer:    m,
		transport: tr,
		maxEmails: m.config.MaxEmails,
	}
	for _, opt := range opts {
		opt(conn)
	}

	if !m.config.Suppress {
		if err := tr.Open(ctx); err != nil {
			return nil, errors.Join(ErrSendFailed, err)
		}
	}
	return conn, nil
}

// Record attaches an outbox that captures every message passing validation.
// The returned stop function detaches it. Intended for tests.
func (m *Mailer) Record() (*Outbox, func()) {
	outbox := &Outbox{}

	m.mu.Lock()
	m.outboxes = append(m.outboxes, outbox)
	m.mu.Unlock()

	stop := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, ob := range m.outboxes {
			if ob == outbox {
				m.outboxes = append(m.outboxes[:i], m.outboxes[i+1:]...)
				return
			}
		}
	}
	return outbox, stop
}

// prepare applies config defaults and validates the message.
func (m *Mailer) prepare(msg *Message) error {
	if msg.From == "" {
		msg.From = m.config.DefaultSender
	}
	if msg.Date.IsZero() {
		msg.Date = time.Now()
	}
	if msg.MessageID == "" {
		msg.MessageID = newMessageID()
	}
	return msg.Validate()
}

// deliver sends over the backend, opening and closing the transport for
// connection-oriented backends. Use Connect to batch sends over one connection.
func (m *Mailer) deliver(ctx context.Context, msg *Message) error {
	if m.transport != nil {
		if err := m.transport.Open(ctx); err != nil {
			return err
		}
		defer m.transport.Close() //nolint:errcheck // delivery result already captured
		return m.transport.Send(ctx, msg)
	}
	return m.sender.Send(ctx, msg)
}

func (m *Mailer) record(msg *Message) {
	m.mu.Lock()
	outboxes := append([]*Outbox(nil), m.outboxes...)
	m.mu.Unlock()
	for _, ob := range outboxes {
		ob.add(msg)
	}
}

func (m *Mailer) processSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
