package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notifyme/internal/domain/notification"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

var _ notification.Store = (*SupabaseNotificationStore)(nil)

// SupabaseNotificationStore implements notification.Store using the Supabase Go SDK.
type SupabaseNotificationStore struct {
	client *supa.Client
}

// NewSupabaseNotificationStore creates a new Supabase-backed notification store.
func NewSupabaseNotificationStore(client *supa.Client) *SupabaseNotificationStore {
	return &SupabaseNotificationStore{client: client}
}

// notificationRow is the internal representation for PostgREST insert/update.
type notificationRow struct {
	ID           string  `json:"id,omitempty"`
	Recipient    string  `json:"recipient"`
	TemplateID   string  `json:"template_id"`
	Variables    string  `json:"variables,omitempty"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	SentAt       *string `json:"sent_at,omitempty"`
}

// Insert persists a new notification record and reads back the
// database-assigned ID and creation timestamp.
func (s *SupabaseNotificationStore) Insert(ctx context.Context, n *notification.Notification) error {
	row := notificationRow{
		Recipient:  n.Recipient,
		TemplateID: n.TemplateID,
		Variables:  n.Variables,
		Status:     string(n.Status),
	}

	data, _, err := s.client.From(notificationsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	var results []notificationRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		n.ID = results[0].ID
		if results[0].CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339Nano, results[0].CreatedAt); err == nil {
				n.CreatedAt = ts
			}
		}
	}

	return nil
}

// Update persists the status, error message, and sent timestamp of an
// existing record. CreatedAt and the request fields are never touched.
func (s *SupabaseNotificationStore) Update(ctx context.Context, n *notification.Notification) error {
	update := map[string]any{
		"status": string(n.Status),
	}

	if n.ErrorMessage != "" {
		update["error_message"] = n.ErrorMessage
	}
	if n.SentAt != nil {
		update["sent_at"] = n.SentAt.UTC().Format(time.RFC3339Nano)
	}

	_, _, err := s.client.From(notificationsTable).Update(update, "", "").Eq("id", n.ID).Execute()
	if err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by ID. Returns nil, nil if not found.
func (s *SupabaseNotificationStore) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	data, _, err := s.client.From(notificationsTable).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing notification: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rowToNotification(&rows[0]), nil
}

// List retrieves all notifications, newest first.
func (s *SupabaseNotificationStore) List(ctx context.Context) ([]*notification.Notification, error) {
	data, _, err := s.client.From(notificationsTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return parseNotificationList(data)
}

// ListByStatus retrieves notifications with the given status, newest first.
func (s *SupabaseNotificationStore) ListByStatus(ctx context.Context, status notification.Status) ([]*notification.Notification, error) {
	data, _, err := s.client.From(notificationsTable).
		Select("*", "exact", false).
		Eq("status", string(status)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing notifications by status: %w", err)
	}

	return parseNotificationList(data)
}

// Count returns the total number of notifications.
func (s *SupabaseNotificationStore) Count(ctx context.Context) (int64, error) {
	_, count, err := s.client.From(notificationsTable).
		Select("id", "exact", false).
		Range(0, 0, "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of notifications with the given status.
func (s *SupabaseNotificationStore) CountByStatus(ctx context.Context, status notification.Status) (int64, error) {
	_, count, err := s.client.From(notificationsTable).
		Select("id", "exact", false).
		Eq("status", string(status)).
		Range(0, 0, "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("counting notifications by status: %w", err)
	}
	return count, nil
}

// parseNotificationList unmarshals a PostgREST result set.
func parseNotificationList(data []byte) ([]*notification.Notification, error) {
	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing notification list: %w", err)
	}

	notifications := make([]*notification.Notification, len(rows))
	for i := range rows {
		notifications[i] = rowToNotification(&rows[i])
	}
	return notifications, nil
}

// rowToNotification converts a notificationRow to a notification.Notification.
func rowToNotification(row *notificationRow) *notification.Notification {
	n := &notification.Notification{
		ID:         row.ID,
		Recipient:  row.Recipient,
		TemplateID: row.TemplateID,
		Variables:  row.Variables,
		Status:     notification.Status(row.Status),
	}

	if row.ErrorMessage != nil {
		n.ErrorMessage = *row.ErrorMessage
	}
	if row.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			n.CreatedAt = ts
		}
	}
	if row.SentAt != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *row.SentAt); err == nil {
			n.SentAt = &ts
		}
	}

	return n
}
