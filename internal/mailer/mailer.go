package mailer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var ErrNoRecipients = eris.New("message has no recipients")

// Message is one HTML-only email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, addr := range m.To {
		if strings.TrimSpace(addr) == "" {
			return eris.Wrap(ErrNoRecipients, "blank address")
		}
	}
	return nil
}

// Sender delivers messages. Implementations return an error per message and
// never retry.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender logs messages instead of delivering them.
type LogSender struct {
	Log *zap.SugaredLogger
}

func (s *LogSender) Send(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.Log.Infow("dry run, message not sent", "to", msg.To, "subject", msg.Subject, "html_bytes", len(msg.HTML))
	return nil
}
