package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notifyme/internal/common"
	"notifyme/internal/domain/template"

	supa "github.com/supabase-community/supabase-go"
)

var _ template.Store = (*SupabaseTemplateStore)(nil)

// SupabaseTemplateStore implements template.Store using the Supabase Go SDK.
type SupabaseTemplateStore struct {
	client *supa.Client
}

// NewSupabaseTemplateStore creates a new Supabase-backed template store.
func NewSupabaseTemplateStore(client *supa.Client) *SupabaseTemplateStore {
	return &SupabaseTemplateStore{client: client}
}

// templateRow is the internal representation for PostgREST insert/update.
type templateRow struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Create inserts a new template. The table's unique constraint on name is
// the authoritative uniqueness guard; a violation surfaces as ConflictError.
func (s *SupabaseTemplateStore) Create(ctx context.Context, t *template.Template) error {
	row := templateRow{
		Name:    t.Name,
		Subject: t.Subject,
		Body:    t.Body,
	}

	data, _, err := s.client.From(templatesTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("template with name '%s' already exists", t.Name))
		}
		return fmt.Errorf("inserting template: %w", err)
	}

	var results []templateRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		t.ID = results[0].ID
		if ts, err := time.Parse(time.RFC3339Nano, results[0].CreatedAt); err == nil {
			t.CreatedAt = ts
		}
	}

	return nil
}

// GetByID retrieves a template by ID. Returns nil, nil if not found.
func (s *SupabaseTemplateStore) GetByID(ctx context.Context, id string) (*template.Template, error) {
	data, _, err := s.client.From(templatesTable).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching template: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rowToTemplate(&rows[0]), nil
}

// GetByName retrieves a template by its unique name. Returns nil, nil if not found.
func (s *SupabaseTemplateStore) GetByName(ctx context.Context, name string) (*template.Template, error) {
	data, _, err := s.client.From(templatesTable).Select("*", "exact", false).Eq("name", name).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching template by name: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rowToTemplate(&rows[0]), nil
}

// List retrieves all templates.
func (s *SupabaseTemplateStore) List(ctx context.Context) ([]*template.Template, error) {
	data, _, err := s.client.From(templatesTable).Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing template list: %w", err)
	}

	templates := make([]*template.Template, len(rows))
	for i := range rows {
		templates[i] = rowToTemplate(&rows[i])
	}
	return templates, nil
}

// Update persists the template's name, subject, and body.
func (s *SupabaseTemplateStore) Update(ctx context.Context, t *template.Template) error {
	update := map[string]any{
		"name":    t.Name,
		"subject": t.Subject,
		"body":    t.Body,
	}

	_, _, err := s.client.From(templatesTable).Update(update, "", "").Eq("id", t.ID).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("template with name '%s' already exists", t.Name))
		}
		return fmt.Errorf("updating template: %w", err)
	}

	return nil
}

// Delete removes a template by ID and reports whether a record existed.
func (s *SupabaseTemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	data, _, err := s.client.From(templatesTable).Delete("representation", "").Eq("id", id).Execute()
	if err != nil {
		return false, fmt.Errorf("deleting template: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("parsing delete response: %w", err)
	}

	return len(rows) > 0, nil
}

// rowToTemplate converts a templateRow to a template.Template.
func rowToTemplate(row *templateRow) *template.Template {
	t := &template.Template{
		ID:      row.ID,
		Name:    row.Name,
		Subject: row.Subject,
		Body:    row.Body,
	}

	if row.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			t.CreatedAt = ts
		}
	}

	return t
}
