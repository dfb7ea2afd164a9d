package notification

import "context"

// Store defines the contract for persisting notification records.
// Implementations live in infra/store/ (e.g., Supabase).
//
// Each dispatched notification sees exactly two writes: Insert of the
// pending record before the delivery attempt, then one Update settling the
// terminal status. A row stuck in PENDING is the observable trace of a
// crash between the two.
type Store interface {
	// Insert persists a new notification and fills in its ID and CreatedAt.
	Insert(ctx context.Context, n *Notification) error

	// Update persists the status, error message, and sent timestamp of an
	// existing record.
	Update(ctx context.Context, n *Notification) error

	// GetByID retrieves a notification by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id string) (*Notification, error)

	// List retrieves all notifications, newest first.
	List(ctx context.Context) ([]*Notification, error)

	// ListByStatus retrieves notifications with the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*Notification, error)

	// Count returns the total number of notifications.
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns the number of notifications with the given status.
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
