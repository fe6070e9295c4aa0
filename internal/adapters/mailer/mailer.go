// Package mailer renders secret santa letters and hands them to a mail transport.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/secretsanta/internal/domain/model"
)

// Template placeholders replaced in every rendered letter.
const (
	SantaPlaceholder     = "{santa}"
	RecipientPlaceholder = "{recipient}"
)

// Template describes the letter sent to each santa.
type Template struct {
	FromName  string
	FromEmail string
	Subject   string
	Body      string // may contain {santa} and {recipient}
}

// Letter is a rendered message ready to be recorded or sent.
type Letter struct {
	Santa   model.Participant
	From    string
	To      string
	Message string // headers, blank line and body
}

// Transport delivers one message to one address.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// Mailer renders letters from a Template and sends them through a Transport.
type Mailer struct {
	tmpl      Template
	transport Transport
}

// New creates a Mailer. Transport may be nil for render-only use; Send then fails with ErrNoTransport.
func New(tmpl Template, transport Transport) *Mailer {
	return &Mailer{tmpl: tmpl, transport: transport}
}

// Render builds the letter for santa naming recipient. Placeholders are
// substituted across the whole message, headers included.
func (m *Mailer) Render(santa, recipient model.Participant) Letter {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", m.tmpl.FromName, m.tmpl.FromEmail)
	fmt.Fprintf(&b, "To: %s <%s>\n", santa.Name, santa.Email)
	fmt.Fprintf(&b, "Subject: %s\n\n", m.tmpl.Subject)
	b.WriteString(m.tmpl.Body)
	b.WriteString("\n")

	r := strings.NewReplacer(SantaPlaceholder, santa.Name, RecipientPlaceholder, recipient.Name)
	return Letter{
		Santa:   santa,
		From:    m.tmpl.FromEmail,
		To:      santa.Email,
		Message: r.Replace(b.String()),
	}
}

// Send hands a rendered letter to the transport as UTF-8 text.
func (m *Mailer) Send(ctx context.Context, l Letter) error {
	if m.transport == nil {
		return ErrNoTransport
	}
	if err := m.transport.Send(ctx, l.From, []string{l.To}, []byte(l.Message)); err != nil {
		return fmt.Errorf("%w to %s (%s): %w", ErrSend, l.Santa.Name, l.To, err)
	}
	return nil
}
