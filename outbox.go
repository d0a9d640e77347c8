package mailkit

import "sync"

// Outbox records messages as they pass through a Mailer. Intended for tests:
// attach one with Mailer.Record, exercise the code under test, then inspect
// the captured messages.
type Outbox struct {
	mu       sync.Mutex
	messages []*Message
}

func (o *Outbox) add(msg *Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

// Messages returns the recorded messages in send order.
func (o *Outbox) Messages() []*Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Message(nil), o.messages...)
}

// Len returns the number of recorded messages.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.messages)
}

// Last returns the most recently recorded message, or nil if empty.
func (o *Outbox) Last() *Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.messages) == 0 {
		return nil
	}
	return o.messages[len(o.messages)-1]
}
