package notification

import (
	"fmt"
	"strings"
	"time"

	"notifyme/internal/common"
	"notifyme/internal/domain/template"
)

// Status represents the lifecycle state of a notification.
// A notification is created PENDING and settles exactly once into SENT or
// FAILED; both terminal states are never mutated again.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// ParseStatus converts user-supplied text to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusSent:
		return StatusSent, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", common.NewValidationError(fmt.Sprintf("unknown status: %s", s))
	}
}

// Notification is a persisted dispatch record. Variables holds the caller's
// variable map as a write-once serialized blob; it is stored history and is
// never reinterpreted.
type Notification struct {
	ID           string
	Recipient    string
	TemplateID   string
	Variables    string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	SentAt       *time.Time
}

// SendRequest is the API payload for POST /api/notify.
type SendRequest struct {
	Recipient  string         `json:"recipient"`
	TemplateID string         `json:"templateId"`
	Variables  map[string]any `json:"variables"`
}

// SendResponse is the API response for POST /api/notify. Success reports
// that a record was created and processed, not that delivery succeeded.
type SendResponse struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notificationId,omitempty"`
	Message        string `json:"message"`
}

// View is the read projection of a notification with its template embedded.
// The template is re-read at query time, so a template edited after the send
// shows its current text here, not the text that was delivered.
type View struct {
	ID           string             `json:"id"`
	Recipient    string             `json:"recipient"`
	Template     *template.Template `json:"template"`
	Variables    string             `json:"variables"`
	Status       Status             `json:"status"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	SentAt       *time.Time         `json:"sentAt,omitempty"`
}

// Stats aggregates notification counts for the dashboard.
type Stats struct {
	TotalNotifications   int64 `json:"totalNotifications"`
	SentNotifications    int64 `json:"sentNotifications"`
	FailedNotifications  int64 `json:"failedNotifications"`
	PendingNotifications int64 `json:"pendingNotifications"`
}
