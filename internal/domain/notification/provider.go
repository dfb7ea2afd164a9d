package notification

import (
	"context"

	"notifyme/internal/domain/template"
)

// Message is the rendered message handed to a delivery provider.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender defines the contract for a notification delivery channel.
// Implementations live in infra/ (e.g., Resend for email).
type Sender interface {
	// Send delivers a rendered message. The returned error's text is what
	// gets recorded on the notification when delivery fails.
	Send(ctx context.Context, msg *Message) error
}

// Renderer substitutes {{key}} placeholders in a template pattern.
// Implementations live in infra/template/.
type Renderer interface {
	// Render replaces each {{key}} whose key is present in vars with the
	// value's string form. Keys absent from vars leave their placeholders
	// untouched.
	Render(pattern string, vars map[string]any) string
}

// TemplateResolver looks up the template a dispatch request references.
// Satisfied by template.Store.
type TemplateResolver interface {
	GetByID(ctx context.Context, id string) (*template.Template, error)
}
