package template

import "context"

// Store defines the contract for persisting templates.
// Implementations live in infra/store/ (e.g., Supabase).
type Store interface {
	// Create inserts a new template and fills in its ID and CreatedAt.
	// Returns a common.ConflictError if the name is already taken; the
	// storage layer's unique constraint is the authoritative guard.
	Create(ctx context.Context, t *Template) error

	// GetByID retrieves a template by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id string) (*Template, error)

	// GetByName retrieves a template by its unique name.
	// Returns nil, nil if not found.
	GetByName(ctx context.Context, name string) (*Template, error)

	// List retrieves all templates.
	List(ctx context.Context) ([]*Template, error)

	// Update persists the template's name, subject, and body.
	// Returns a common.ConflictError if the name collides with another template.
	Update(ctx context.Context, t *Template) error

	// Delete removes a template by ID and reports whether a record existed.
	Delete(ctx context.Context, id string) (bool, error)
}
