package store

import (
	"fmt"
	"strings"

	supa "github.com/supabase-community/supabase-go"
)

const (
	templatesTable     = "templates"
	notificationsTable = "notifications"
)

// NewClient creates the Supabase client shared by both stores.
func NewClient(supabaseURL, serviceKey string) (*supa.Client, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return client, nil
}

// isUniqueViolation reports whether a PostgREST error carries a Postgres
// unique-constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "23505") || strings.Contains(s, "duplicate key")
}
