package notification

import (
	"context"

	appnotification "github.com/storefront/backend/internal/application/notification"
	"go.uber.org/zap"
)

// LoggingMailer writes emails to the log instead of sending them.
// It is used when SMTP is disabled, typically in development.
type LoggingMailer struct {
	logger *zap.Logger
}

var _ appnotification.Mailer = (*LoggingMailer)(nil)

// NewLoggingMailer creates a new LoggingMailer
func NewLoggingMailer(logger *zap.Logger) *LoggingMailer {
	return &LoggingMailer{logger: logger.Named("mail")}
}

// SendOrderConfirmation implements notification.Mailer
func (m *LoggingMailer) SendOrderConfirmation(_ context.Context, msg appnotification.OrderConfirmation) error {
	m.logger.Info("order confirmation (smtp disabled)",
		zap.String("to", msg.To),
		zap.String("subject", orderConfirmationSubject(msg)),
		zap.Int("lines", len(msg.Lines)),
		zap.String("total", msg.Total.StringFixed(2)),
	)
	return nil
}

// SendVerificationCode implements notification.Mailer
func (m *LoggingMailer) SendVerificationCode(_ context.Context, msg appnotification.VerificationCode) error {
	m.logger.Info("verification code (smtp disabled)",
		zap.String("to", msg.To),
		zap.String("code", msg.Code),
		zap.Time("expires_at", msg.ExpiresAt),
	)
	return nil
}
