package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

var ErrNotConnected = errors.New("mail relay session is closed")

// Dispatcher opens sessions against the mail relay. Connect doubles as the
// "is the relay usable" check done before each send.
type Dispatcher interface {
	Connect(ctx context.Context) (Session, error)
}

type Session interface {
	Send(ctx context.Context, msg *Message) error
	Close() error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

type SMTPDispatcher struct {
	cfg SMTPConfig
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

func (d *SMTPDispatcher) Connect(ctx context.Context) (Session, error) {
	client, err := mail.NewClient(d.cfg.Host,
		mail.WithPort(d.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.cfg.Username),
		mail.WithPassword(d.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(d.cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialWithContext(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", d.cfg.Host, d.cfg.Port, err)
	}
	return &smtpSession{client: client}, nil
}

type smtpSession struct {
	client *mail.Client
	closed bool
}

func (s *smtpSession) Send(ctx context.Context, msg *Message) error {
	if s.closed {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	if err := s.client.Send(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}

func buildMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	if err := m.ReplyTo(msg.ReplyTo); err != nil {
		return nil, fmt.Errorf("set reply-to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}
