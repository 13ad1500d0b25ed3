// Package notification delivers customer emails over SMTP.
package notification

import (
	"context"
	"fmt"
	"strings"

	appnotification "github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer sends HTML emails through an SMTP relay
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
	logger   *zap.Logger
}

var _ appnotification.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from SMTP settings. No connection is opened
// until a message is sent.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client:   client,
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger.Named("smtp"),
	}, nil
}

// SendOrderConfirmation implements notification.Mailer
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, msg appnotification.OrderConfirmation) error {
	email, err := m.orderConfirmationMsg(msg)
	if err != nil {
		return err
	}
	return m.send(ctx, email)
}

// SendVerificationCode implements notification.Mailer
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, msg appnotification.VerificationCode) error {
	email, err := m.verificationCodeMsg(msg)
	if err != nil {
		return err
	}
	return m.send(ctx, email)
}

func (m *SMTPMailer) orderConfirmationMsg(msg appnotification.OrderConfirmation) (*mail.Msg, error) {
	body, err := renderOrderConfirmation(msg)
	if err != nil {
		return nil, err
	}
	return m.newMsg(msg.To, orderConfirmationSubject(msg), body)
}

func (m *SMTPMailer) verificationCodeMsg(msg appnotification.VerificationCode) (*mail.Msg, error) {
	body, err := renderVerificationCode(msg)
	if err != nil {
		return nil, err
	}
	return m.newMsg(msg.To, verificationSubject, body)
}

func (m *SMTPMailer) newMsg(to, subject, htmlBody string) (*mail.Msg, error) {
	email := mail.NewMsg()
	if err := email.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := email.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	email.Subject(subject)
	email.SetBodyString(mail.TypeTextHTML, htmlBody)
	return email, nil
}

func (m *SMTPMailer) send(ctx context.Context, email *mail.Msg) error {
	if err := m.client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Debug("mail sent", zap.Strings("to", email.GetToString()))
	return nil
}

func tlsPolicy(policy string) mail.TLSPolicy {
	switch strings.ToLower(policy) {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}
