package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestTemplateRenderer_Confirmation(t *testing.T) {
	r := NewTemplateRenderer()

	subject, htmlBody, textBody, err := r.Render("confirmation", &domain.ConfirmationEmailData{
		Email:          "u@example.com",
		ConferenceInfo: "GopherCon in Denver",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, htmlBody, "GopherCon in Denver")
	assert.Contains(t, textBody, "GopherCon in Denver")
}

func TestTemplateRenderer_LoginCode(t *testing.T) {
	r := NewTemplateRenderer()

	subject, htmlBody, textBody, err := r.Render("login_code", &domain.LoginCodeEmailData{
		Email:            "u@example.com",
		Code:             "123456",
		ExpiresInMinutes: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, htmlBody, "123456")
	assert.Contains(t, textBody, "123456")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()

	_, _, _, err := r.Render("does_not_exist", nil)
	require.Error(t, err)
}
