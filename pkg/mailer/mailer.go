package mailer

import (
	"context"
	"fmt"

	"github.com/obatqu/obatqu-backend/pkg/config"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	mail "github.com/wneessen/go-mail"
)

// Sender delivers a plain-text notification to the configured recipient.
// Implementations must never panic; a failed delivery is reported as an
// error and recovered by the caller.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// SMTPSender sends mail over SMTP using go-mail.
type SMTPSender struct {
	client *mail.Client
	from   string
	logger *logger.Logger
}

// NewSMTPSender creates an SMTP-backed sender from configuration.
func NewSMTPSender(cfg *config.SMTPConfig, log *logger.Logger) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPSender{
		client: client,
		from:   from,
		logger: log,
	}, nil
}

// Send delivers a plain-text message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, text string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.logger.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

// LogSender writes digests to the log instead of sending them. Used when
// SMTP credentials are not configured, mirroring a fallback log.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

// Send records the message in the log and reports success.
func (s *LogSender) Send(_ context.Context, to, subject, text string) error {
	s.logger.Warn().
		Str("to", to).
		Str("subject", subject).
		Str("text", text).
		Msg("SMTP not configured; notification written to log only")
	return nil
}
