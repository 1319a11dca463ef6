package testhelpers

import (
	"context"
	"sync"

	"salarycheck/internal/mailer"
)

// Mailbox is a mailer.Sender that records messages. Failures maps a recipient
// address to the error returned when a message is addressed to it.
type Mailbox struct {
	mu       sync.Mutex
	Messages []*mailer.Message
	Failures map[string]error
}

func NewMailbox() *Mailbox {
	return &Mailbox{Failures: map[string]error{}}
}

func (m *Mailbox) Send(_ context.Context, msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, to := range msg.To {
		if err, ok := m.Failures[to]; ok {
			return err
		}
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// SentTo returns the messages addressed to addr.
func (m *Mailbox) SentTo(addr string) []*mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*mailer.Message
	for _, msg := range m.Messages {
		for _, to := range msg.To {
			if to == addr {
				out = append(out, msg)
				break
			}
		}
	}
	return out
}
