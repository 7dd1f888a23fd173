// Package mailer delivers notification emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/domain"
)

// Sender is the transport half of *mail.Client.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	from   string
	sender Sender
}

var ErrNoRecipient = errors.New("mailer: no recipient")

// New dials nothing yet; the connection is opened per Send. Port 465 uses
// implicit TLS, any other port requires STARTTLS.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(60 * time.Second),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return NewWithSender(from, c), nil
}

func NewWithSender(from string, s Sender) *Mailer {
	return &Mailer{from: from, sender: s}
}

// Send delivers one message and returns its Message-ID.
func (m *Mailer) Send(ctx context.Context, msg domain.Mail) (string, error) {
	mm, err := m.build(msg)
	if err != nil {
		return "", err
	}
	start := time.Now()
	err = m.sender.DialAndSendWithContext(ctx, mm)
	observability.ObserveExternal("smtp", "send", 0, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	id := mm.GetMessageID()
	log.Info().Str("to", msg.To).Str("message_id", id).Msg("mail sent")
	return id, nil
}

func (m *Mailer) build(msg domain.Mail) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return nil, fmt.Errorf("from %q: %w", m.from, err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	mm.Subject(msg.Subject)
	mm.SetDate()
	mm.SetMessageID()
	mm.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		if err := mm.AttachReader(a.Filename, bytes.NewReader(a.Content), mail.WithFileContentType(mail.ContentType(ct))); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return mm, nil
}
