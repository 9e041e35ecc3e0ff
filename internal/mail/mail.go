package mail

import "context"

// Sender dispatches transactional email. Delivery is best-effort: callers
// treat a send failure as non-fatal for the surrounding flow.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// NoopSender is used in tests and in environments without mail credentials.
type NoopSender struct{}

func (NoopSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return nil
}
