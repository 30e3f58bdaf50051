package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// resendEmails is the subset of the Resend client used by ResendSender.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	emails    resendEmails
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// ResendConfig holds configuration for Resend.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewResendSender creates a Resend sender. It returns nil without an API key.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	return newResendSender(resend.NewClient(cfg.APIKey).Emails, cfg, logger)
}

func newResendSender(emails resendEmails, cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	return &ResendSender{
		emails:    emails,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.emails == nil {
		return fmt.Errorf("notify: resend client not configured")
	}

	req := &resend.SendEmailRequest{
		From:    formatAddress(s.fromName, s.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		s.logger.Error("resend send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: resend send failed: %w", err)
	}

	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "message_id", resp.Id)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
