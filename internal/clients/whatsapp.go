package clients

import (
	"net/url"
	"strings"
)

// WhatsAppHandoff builds wa.me deep links to the store's number.
type WhatsAppHandoff struct {
	number string
}

// NewWhatsAppHandoff creates a handoff for number, digits only with country code.
func NewWhatsAppHandoff(number string) *WhatsAppHandoff {
	return &WhatsAppHandoff{number: strings.TrimPrefix(strings.TrimSpace(number), "+")}
}

// ComposeURL returns the link that opens a chat pre-filled with message.
func (h *WhatsAppHandoff) ComposeURL(message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + h.number + "?text=" + text
}
