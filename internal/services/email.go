package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConfirmationEmail sends the conference-created confirmation using the
// "confirmation" template.
func (s *emailService) SendConfirmationEmail(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("confirmation", data)
	if err != nil {
		return fmt.Errorf("render confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "confirmation email sent", "to", data.Email)
	return nil
}

// SendLoginCode sends the passwordless login code email using the
// "login_code" template.
func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login code email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("login_code", data)
	if err != nil {
		return fmt.Errorf("render login_code template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send login code email: %w", err)
	}
	s.logger.InfoContext(ctx, "login code sent", "to", data.Email)
	return nil
}
