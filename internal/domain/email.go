package domain

import "context"

// Mailer sends a single email. Implementations may use SES, SMTP, etc.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}

// EmailTemplateRenderer renders a named template with the given data into
// subject, HTML body, and text body.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConfirmationEmailData is the payload of the post-creation confirmation
// email task. Delivery is at-least-once and fire-and-forget; sending the same
// confirmation twice is harmless.
type ConfirmationEmailData struct {
	Email          string
	ConferenceInfo string
}

// LoginCodeEmailData is the data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// EmailService defines the business logic for outbound email.
type EmailService interface {
	SendConfirmationEmail(ctx context.Context, data *ConfirmationEmailData) error
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
}

// TaskEnqueuer hands work off for out-of-band execution. Enqueue must not
// block on downstream delivery; the queue is drained by a worker.
type TaskEnqueuer interface {
	EnqueueConfirmationEmail(ctx context.Context, data ConfirmationEmailData) error
}
