package email

import (
	"context"

	"go.uber.org/zap"
)

// Noop logs mail to zap instead of delivering it. Used in development
// and whenever SMTP is not configured.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a Noop sender backed by the given logger.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

// Send logs the email and returns nil.
func (n *Noop) Send(_ context.Context, to, subject, body string) error {
	n.logger.Info("email not sent (smtp disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
