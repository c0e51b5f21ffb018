package notification

import (
	"context"
	"fmt"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer returns a Mailer that dials the SMTP server for every
// message. A Mailer without a host logs instead of sending.
func NewSMTPMailer(cfg config.SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	if cfg.Host == "" {
		return &logMailer{logger: l}
	}
	return &smtpMailer{cfg: cfg, logger: l}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("smtp not configured, mail not sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
