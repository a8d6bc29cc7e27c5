package mailer

import (
	"html"
	"strings"

	"github.com/namsos-athenaeum/athenaeum/internal/models"
)

type Message struct {
	FromName    string
	FromAddress string
	To          string
	ReplyTo     string
	Subject     string
	TextBody    string
	HTMLBody    string
}

type Envelope struct {
	SenderName    string
	SenderAddress string
	Recipient     string
	Subject       string
}

// BookingLines are the labelled body lines of a booking mail, values verbatim.
func BookingLines(r *models.BookingRequest) []string {
	return []string{
		"Navn: " + r.Name,
		"Epost: " + r.Email,
		"Telefonnummer: " + r.Phone,
		"Dato: " + r.Date,
		"Lokaler: " + r.ResourceLabel(),
		"Formålet med leien: " + r.Purpose,
	}
}

// NewBookingMessage composes the mail sent to the venue for an accepted request.
// Replies go to the requester.
func NewBookingMessage(env Envelope, r *models.BookingRequest) *Message {
	lines := BookingLines(r)

	escaped := make([]string, len(lines))
	for i, l := range lines {
		escaped[i] = html.EscapeString(l)
	}

	return &Message{
		FromName:    env.SenderName,
		FromAddress: env.SenderAddress,
		To:          env.Recipient,
		ReplyTo:     r.Email,
		Subject:     env.Subject,
		TextBody:    strings.Join(lines, "\n"),
		HTMLBody:    strings.Join(escaped, "<br>\n"),
	}
}
