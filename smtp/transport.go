// Package smtp implements a connection-oriented mailkit.Transport over SMTP
// using go-mail: TLS/STARTTLS selection by port, several auth methods, and
// proper MIME multipart message construction.
package smtp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/mailkit"
)

// Transport sends messages over a persistent SMTP connection. It implements
// mailkit.Transport, so it works both for one-shot sends and for bounded
// connections acquired with Mailer.Connect.
type Transport struct {
	client *mail.Client
	config Config
	logger *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates an SMTP transport from config.
func New(cfg Config, opts ...Option) (*Transport, error) {
	client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("smtp: create client: %w", err)
	}

	t := &Transport{
		client: client,
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Open establishes the SMTP connection.
func (t *Transport) Open(ctx context.Context) error {
	t.logger.DebugContext(ctx, "smtp: connecting",
		slog.String("host", t.config.Host),
		slog.Int("port", t.config.Port),
	)
	if err := t.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp: dial %s:%d: %w", t.config.Host, t.config.Port, err)
	}
	return nil
}

// Close terminates the SMTP connection. Safe to call when not connected.
func (t *Transport) Close() error {
	if err := t.client.Close(); err != nil {
		return fmt.Errorf("smtp: close: %w", err)
	}
	return nil
}

// Send delivers a message over the open connection.
func (t *Transport) Send(ctx context.Context, msg *mailkit.Message) error {
	m, err := convert(msg)
	if err != nil {
		return err
	}
	if err := t.client.Send(m); err != nil {
		t.logger.ErrorContext(ctx, "smtp: send failed",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

// convert builds a go-mail message from a mailkit message.
func convert(msg *mailkit.Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("smtp: invalid sender address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("smtp: invalid recipient address: %w", err)
	}
	if len(msg.CC) > 0 {
		if err := m.Cc(msg.CC...); err != nil {
			return nil, fmt.Errorf("smtp: invalid cc address: %w", err)
		}
	}
	if len(msg.BCC) > 0 {
		if err := m.Bcc(msg.BCC...); err != nil {
			return nil, fmt.Errorf("smtp: invalid bcc address: %w", err)
		}
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp: invalid reply-to address: %w", err)
		}
	}

	m.Subject(msg.Subject)
	if !msg.Date.IsZero() {
		m.SetDateWithValue(msg.Date)
	}
	if msg.MessageID != "" {
		// MessageID is stored with angle brackets already.
		m.SetGenHeader(mail.HeaderMessageID, msg.MessageID)
	}

	// Prefer multipart/alternative when both bodies are present.
	switch {
	case msg.HTML != "" && msg.Body != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Body)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Body)
	}

	for key, value := range msg.Headers {
		m.SetGenHeader(mail.Header(key), value)
	}

	for _, att := range msg.Attachments {
		name := att.Filename
		if name == "" {
			name = "attachment"
		}
		if att.Disposition == mailkit.DispositionInline {
			cid := att.ContentID
			if cid == "" {
				cid = name
			}
			if err := m.EmbedReader(cid, bytes.NewReader(att.Content),
				mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
				return nil, fmt.Errorf("smtp: embed %s: %w", name, err)
			}
			continue
		}
		if err := m.AttachReader(name, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return nil, fmt.Errorf("smtp: attach %s: %w", name, err)
		}
	}

	return m, nil
}

// clientOptions maps config to go-mail client options.
func clientOptions(cfg Config) []mail.Option {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}

	switch cfg.Port {
	case 465:
		// Implicit TLS (SMTPS)
		opts = append(opts, mail.WithSSL())
	case 587:
		// STARTTLS (submission port)
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// Plain SMTP or local relays (e.g. 1025 for Mailpit)
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}

	return opts
}
