package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/elskow/notekeep/internal/config"
)

type ResendSender struct {
	client *resend.Client
	config *config.MailConfig
}

func NewResendSender(config *config.MailConfig) (*ResendSender, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendSender{
		client: resend.NewClient(config.APIKey),
		config: config,
	}, nil
}

func (s *ResendSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: fmt.Sprintf("Password Reset For %s", s.config.AppName),
		Html:    passwordResetTemplate(s.config.AppName, resetURL),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
