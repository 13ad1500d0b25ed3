package notification

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VerificationMailHandler emails freshly issued verification codes
type VerificationMailHandler struct {
	mailer Mailer
	logger *zap.Logger
}

// NewVerificationMailHandler creates a new VerificationMailHandler
func NewVerificationMailHandler(mailer Mailer, logger *zap.Logger) *VerificationMailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationMailHandler{mailer: mailer, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *VerificationMailHandler) EventTypes() []string {
	return []string{identity.EventTypeVerificationCodeIssued}
}

// Handle sends the code carried by a VerificationCodeIssued event.
// The user can always request a new code, so failures are only logged.
func (h *VerificationMailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	issued, ok := event.(*identity.VerificationCodeIssuedEvent)
	if !ok {
		h.logger.Error("unexpected event type", zap.String("event_type", event.EventType()))
		return nil
	}

	err := h.mailer.SendVerificationCode(ctx, VerificationCode{
		To:        issued.Email,
		FirstName: issued.FirstName,
		Code:      issued.Code,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		h.logger.Warn("verification email not sent",
			zap.String("user_id", issued.AggregateID().String()),
			zap.Error(err),
		)
	}
	return nil
}
