package mailkit

import "context"

// Sender defines the minimal interface that delivery backends must implement.
// It accepts a validated Message and handles the actual delivery.
type Sender interface {
	// Send delivers a message. The Message has already passed Validate
	// and has its sender, date, and message-id filled in.
	Send(ctx context.Context, msg *Message) error
}

// Transport is a connection-oriented delivery backend. Backends that keep a
// long-lived connection (SMTP) implement it so that many messages can be sent
// over one connection via Mailer.Connect.
type Transport interface {
	Sender

	// Open establishes the underlying connection.
	Open(ctx context.Context) error

	// Close releases the underlying connection. Safe to call more than once.
	Close() error
}

// senderTransport adapts a stateless Sender to the Transport interface with
// no-op Open/Close, so Connect works with any backend.
type senderTransport struct {
	sender Sender
}

func (t senderTransport) Open(ctx context.Context) error { return nil }

func (t senderTransport) Close() error { return nil }

func (t senderTransport) Send(ctx context.Context, msg *Message) error {
	return t.sender.Send(ctx, msg)
}
