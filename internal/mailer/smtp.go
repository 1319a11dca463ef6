package mailer

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPConfig describes the submission server and account.
type SMTPConfig struct {
	Host         string
	Port         int // implicit TLS
	FallbackPort int // plaintext, tried when the TLS dial fails
	Username     string
	Password     string
	FromName     string
	ReplyTo      string
	Timeout      time.Duration
}

type dialer func(ctx context.Context, port int, ssl bool) (*mail.Client, error)

// SMTPSender submits messages over SMTP, one connection per message.
type SMTPSender struct {
	cfg  SMTPConfig
	log  *zap.SugaredLogger
	dial dialer
}

func NewSMTPSender(cfg SMTPConfig, log *zap.SugaredLogger) *SMTPSender {
	s := &SMTPSender{cfg: cfg, log: log}
	s.dial = s.connect
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m, err := s.Build(msg)
	if err != nil {
		return err
	}

	client, err := s.dial(ctx, s.cfg.Port, true)
	if err != nil {
		s.log.Warnw("ssl connection failed, trying plaintext", "host", s.cfg.Host, "port", s.cfg.Port, "error", err)
		client, err = s.dial(ctx, s.cfg.FallbackPort, false)
		if err != nil {
			return eris.Wrapf(err, "failed to connect to %s", s.cfg.Host)
		}
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debugw("failed to close smtp connection", "error", err)
		}
	}()

	if err := client.Send(m); err != nil {
		return eris.Wrap(err, "failed to send message")
	}
	return nil
}

// Build converts msg into a MIME message with From, Reply-To, Message-ID and
// Date headers and an HTML body.
func (s *SMTPSender) Build(msg *Message) (*mail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return nil, eris.Wrapf(err, "invalid sender %q", s.cfg.Username)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, eris.Wrapf(err, "invalid recipients %v", msg.To)
	}
	if s.cfg.ReplyTo != "" {
		if err := m.ReplyTo(s.cfg.ReplyTo); err != nil {
			return nil, eris.Wrapf(err, "invalid reply-to %q", s.cfg.ReplyTo)
		}
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

func (s *SMTPSender) connect(ctx context.Context, port int, ssl bool) (*mail.Client, error) {
	auth := mail.SMTPAuthPlain
	if !ssl {
		auth = mail.SMTPAuthPlainNoEnc
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(auth),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	}
	if ssl {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
