package service

import (
	"strings"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

// TemplateService renders campaign message bodies for one recipient.
// Supported placeholders: {recipient}, {recipient_name}, {sender_name},
// {sender_email}. Anything else in the message is passed through untouched,
// so a plain body without placeholders renders as-is.
type TemplateService struct{}

// NewTemplateService creates a new template service
func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// Render substitutes the supported placeholders into the message
func (t *TemplateService) Render(message string, sender *models.Sender, recipient string) (string, error) {
	replacer := strings.NewReplacer(
		"{recipient}", recipient,
		"{recipient_name}", recipientName(recipient),
		"{sender_name}", sender.Name,
		"{sender_email}", sender.Email,
	)
	return replacer.Replace(message), nil
}

// recipientName derives a display name from the local part of an address
func recipientName(recipient string) string {
	local := recipient
	if i := strings.IndexByte(recipient, '@'); i >= 0 {
		local = recipient[:i]
	}
	if local == "" {
		return recipient
	}
	return local
}
