package mailkit

import (
	"context"
	"errors"
)

// Connection sends many messages over a single transport connection.
// When a maximum is configured, the transport is transparently closed and
// reopened after that many sends, resetting the counter.
//
// A Connection is owned by a single caller; it is not safe for concurrent use.
type Connection struct {
	mailer    *Mailer
	transport Transport
	maxEmails int
	numEmails int
	closed    bool
}

// ConnectOption configures a Connection at acquisition time.
type ConnectOption func(*Connection)

// WithMaxEmails limits the number of messages sent per underlying transport
// connection. Zero or negative means unlimited.
func WithMaxEmails(n int) ConnectOption {
	return func(c *Connection) {
		c.maxEmails = n
	}
}

// Send validates and delivers a message over the held connection,
// reconnecting first if the per-connection message limit was reached.
func (c *Connection) Send(ctx context.Context, msg *Message) error {
	if c.closed {
		return ErrConnectionClosed
	}
	if err := c.mailer.prepare(msg); err != nil {
		return err
	}

	if c.maxEmails > 0 && c.numEmails >= c.maxEmails {
		c.numEmails = 0
		if !c.mailer.config.Suppress {
			if err := c.transport.Close(); err != nil {
				return errors.Join(ErrSendFailed, err)
			}
			if err := c.transport.Open(ctx); err != nil {
				return errors.Join(ErrSendFailed, err)
			}
		}
	}

	if !c.mailer.config.Suppress {
		if err := c.transport.Send(ctx, msg); err != nil {
			return errors.Join(ErrSendFailed, err)
		}
	}

	c.mailer.record(msg)
	c.numEmails++
	return nil
}

// SendMessage builds a message from params and sends it over the connection.
func (c *Connection) SendMessage(ctx context.Context, params SendParams) error {
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
	return c.Send(ctx, msg)
}

// NumEmails returns the number of messages sent over the current underlying
// connection (resets on reconnect).
func (c *Connection) NumEmails() int {
	return c.numEmails
}

// Close releases the connection. The transport is closed on all exit paths;
// calling Close again is a no-op.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.mailer.config.Suppress {
		return nil
	}
	return c.transport.Close()
}
