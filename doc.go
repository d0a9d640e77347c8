// Package mailkit provides a thin email-sending layer for web applications:
// RFC 2822 message composition with header-injection protection, pluggable
// delivery backends, bounded SMTP connections for batch sending, and a
// markdown template renderer.
//
// # Architecture
//
// The package consists of four main components:
//
//   - Message: a flat message record with validation (header injection,
//     required fields) and recipient bookkeeping
//   - Sender / Transport: interfaces delivery backends implement; Transport
//     adds Open/Close for connection-oriented backends such as SMTP
//   - Mailer: high-level client binding a backend, an optional Renderer,
//     and configuration defaults
//   - Connection: sends many messages over one transport connection,
//     transparently reconnecting after a configured maximum
//
// # Usage
//
// Basic usage with the SMTP backend:
//
//	import (
//		"context"
//
//		"github.com/dmitrymomot/mailkit"
//		"github.com/dmitrymomot/mailkit/smtp"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		transport, err := smtp.New(smtp.Config{
//			Host: "smtp.example.com",
//			Port: 587,
//		})
//		if err != nil {
//			panic(err)
//		}
//
//		m := mailkit.New(transport, nil, mailkit.Config{
//			DefaultSender: "support@example.com",
//		})
//
//		msg := m.NewMessage("Hello", "user@example.com")
//		msg.Body = "Welcome aboard!"
//		if err := m.Send(ctx, msg); err != nil {
//			panic(err)
//		}
//	}
//
// # Batch sending
//
// Sending many messages reuses one connection; WithMaxEmails bounds how many
// messages go over a single connection before it is transparently reopened:
//
//	conn, err := m.Connect(ctx, mailkit.WithMaxEmails(100))
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	for _, user := range users {
//		msg := m.NewMessage("Digest", user.Email)
//		msg.Body = digestFor(user)
//		if err := conn.Send(ctx, msg); err != nil {
//			return err
//		}
//	}
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter, rendered into
// an HTML layout. The plain-text alternative is the processed markdown:
//
//	renderer := mailkit.NewRenderer(emails.FS)
//	m := mailkit.New(sender, renderer, mailkit.Config{
//		DefaultSender:   "team@example.com",
//		FallbackSubject: "Notification",
//		DefaultLayout:   "base.html",
//	})
//
//	err := m.SendTemplate(ctx, mailkit.TemplateParams{
//		To:       "user@example.com",
//		Template: "welcome.md",
//		Data:     map[string]any{"Name": "John"},
//	})
//
// # Testing
//
// Suppressed mode (Config.Suppress) validates and records messages without
// touching the backend; Record captures outgoing messages:
//
//	m := mailkit.New(sender, nil, mailkit.Config{
//		DefaultSender: "support@example.com",
//		Suppress:      true,
//	})
//
//	outbox, stop := m.Record()
//	defer stop()
//
//	// ... exercise code under test ...
//
//	if outbox.Len() != 1 {
//		t.Fatal("expected one message")
//	}
//
// # Backends
//
// Built-in backends: smtp (connection-oriented, go-mail), resend (Resend
// API), ses (AWS SES v2), and DevSender (writes messages to disk for local
// development). Implement the Sender interface to add another provider.
package mailkit
