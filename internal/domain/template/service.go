package template

import (
	"context"
	"fmt"
	"log/slog"

	"notifyme/internal/common"
)

// Service implements template CRUD with the name-uniqueness rule.
type Service struct {
	store Store
}

// NewService creates a new template service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List retrieves all templates.
func (s *Service) List(ctx context.Context) ([]*Template, error) {
	templates, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return templates, nil
}

// Get retrieves a template by ID.
func (s *Service) Get(ctx context.Context, id string) (*Template, error) {
	tmpl, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching template: %w", err)
	}
	if tmpl == nil {
		return nil, common.NewNotFoundError("template", id)
	}
	return tmpl, nil
}

// Create stores a new template. The name must not be in use; the pre-check
// here is an optimization and the store's unique constraint settles races.
func (s *Service) Create(ctx context.Context, req *UpsertRequest) (*Template, error) {
	existing, err := s.store.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("checking template name: %w", err)
	}
	if existing != nil {
		return nil, common.NewConflictError(fmt.Sprintf("template with name '%s' already exists", req.Name))
	}

	tmpl := &Template{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
	}

	if err := s.store.Create(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}

	slog.Info("template created", "id", tmpl.ID, "name", tmpl.Name)
	return tmpl, nil
}

// Update modifies an existing template. Renaming onto a name held by a
// different template is a conflict; keeping the same name is allowed.
func (s *Service) Update(ctx context.Context, id string, req *UpsertRequest) (*Template, error) {
	tmpl, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching template: %w", err)
	}
	if tmpl == nil {
		return nil, common.NewNotFoundError("template", id)
	}

	if tmpl.Name != req.Name {
		existing, err := s.store.GetByName(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("checking template name: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, common.NewConflictError(fmt.Sprintf("template with name '%s' already exists", req.Name))
		}
	}

	tmpl.Name = req.Name
	tmpl.Subject = req.Subject
	tmpl.Body = req.Body

	if err := s.store.Update(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}

	slog.Info("template updated", "id", tmpl.ID, "name", tmpl.Name)
	return tmpl, nil
}

// Delete removes a template. Deleting an unknown ID is reported as not found.
func (s *Service) Delete(ctx context.Context, id string) error {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if !existed {
		return common.NewNotFoundError("template", id)
	}

	slog.Info("template deleted", "id", id)
	return nil
}
