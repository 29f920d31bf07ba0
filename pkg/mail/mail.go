package mail

import (
	"context"

	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Sender delivers messages through an outbound mail transport. Send returns an
// error when delivery was not confirmed by the transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleSender logs messages instead of delivering them. Used in development
// and whenever the mail transport is disabled.
type ConsoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender constructs a ConsoleSender.
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleSender{logger: logger}
}

// Send logs the message and reports success.
func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.logger.Sugar().Infow("mail (console)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
	)
	return nil
}
