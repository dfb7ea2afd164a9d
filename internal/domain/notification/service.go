package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"notifyme/internal/common"
	"notifyme/internal/domain/template"
)

// recipientPattern is the accepted address shape: a restricted local part,
// an @, and a non-empty remainder.
var recipientPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@.+$`)

// Service orchestrates the dispatch workflow: validate the request, resolve
// the template, persist a pending record, render, deliver, and settle the
// terminal status.
type Service struct {
	store     Store
	templates TemplateResolver
	renderer  Renderer
	sender    Sender
}

// NewService creates a new notification service.
func NewService(store Store, templates TemplateResolver, renderer Renderer, sender Sender) *Service {
	return &Service{
		store:     store,
		templates: templates,
		renderer:  renderer,
		sender:    sender,
	}
}

// Dispatch executes one notification request end to end.
//
// Validation failures abort before anything is written. Once the pending
// record is durable the call no longer fails on delivery problems: a
// declined or errored send settles the record as FAILED with the failure
// text captured, and the caller still receives the record.
func (s *Service) Dispatch(ctx context.Context, req *SendRequest) (*Notification, error) {
	if !recipientPattern.MatchString(req.Recipient) {
		return nil, common.NewValidationError("invalid recipient")
	}

	tmpl, err := s.templates.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("resolving template: %w", err)
	}
	if tmpl == nil {
		return nil, common.NewValidationError("template not found")
	}

	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return nil, common.NewValidationError("invalid variables")
	}

	n := &Notification{
		Recipient:  req.Recipient,
		TemplateID: tmpl.ID,
		Variables:  string(vars),
		Status:     StatusPending,
	}

	// The pending record must be durable before the delivery attempt, so a
	// crash mid-delivery leaves an auditable row instead of a lost request.
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	msg := &Message{
		To:      req.Recipient,
		Subject: s.renderer.Render(tmpl.Subject, req.Variables),
		Body:    s.renderer.Render(tmpl.Body, req.Variables),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		n.Status = StatusFailed
		n.ErrorMessage = err.Error()
		slog.Error("notification delivery failed",
			"id", n.ID,
			"template", tmpl.Name,
			"to", req.Recipient,
			"error", err,
		)
	} else {
		now := time.Now().UTC()
		n.Status = StatusSent
		n.SentAt = &now
		slog.Info("notification sent",
			"id", n.ID,
			"template", tmpl.Name,
			"to", req.Recipient,
		)
	}

	if err := s.store.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("updating notification: %w", err)
	}

	return n, nil
}

// Get retrieves a single notification projection by ID.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	n, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}
	if n == nil {
		return nil, common.NewNotFoundError("notification", id)
	}

	views, err := s.toViews(ctx, []*Notification{n})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List retrieves notification projections, newest first. An empty
// statusFilter returns everything; otherwise the filter is matched
// case-insensitively against the status enum.
func (s *Service) List(ctx context.Context, statusFilter string) ([]*View, error) {
	var (
		ns  []*Notification
		err error
	)

	if statusFilter != "" {
		status, perr := ParseStatus(statusFilter)
		if perr != nil {
			return nil, perr
		}
		ns, err = s.store.ListByStatus(ctx, status)
	} else {
		ns, err = s.store.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return s.toViews(ctx, ns)
}

// Stats aggregates dashboard counts across the three statuses.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting notifications: %w", err)
	}

	stats := &Stats{TotalNotifications: total}

	if stats.SentNotifications, err = s.store.CountByStatus(ctx, StatusSent); err != nil {
		return nil, fmt.Errorf("counting sent notifications: %w", err)
	}
	if stats.FailedNotifications, err = s.store.CountByStatus(ctx, StatusFailed); err != nil {
		return nil, fmt.Errorf("counting failed notifications: %w", err)
	}
	if stats.PendingNotifications, err = s.store.CountByStatus(ctx, StatusPending); err != nil {
		return nil, fmt.Errorf("counting pending notifications: %w", err)
	}

	return stats, nil
}

// toViews embeds each notification's template, fetching every distinct
// template once per call. Templates are read live: there is no frozen copy
// of the text that was actually rendered, so later edits show through.
func (s *Service) toViews(ctx context.Context, ns []*Notification) ([]*View, error) {
	resolved := make(map[string]*template.Template)
	views := make([]*View, 0, len(ns))

	for _, n := range ns {
		tmpl, ok := resolved[n.TemplateID]
		if !ok {
			var err error
			tmpl, err = s.templates.GetByID(ctx, n.TemplateID)
			if err != nil {
				return nil, fmt.Errorf("resolving template %s: %w", n.TemplateID, err)
			}
			resolved[n.TemplateID] = tmpl
		}

		views = append(views, &View{
			ID:           n.ID,
			Recipient:    n.Recipient,
			Template:     tmpl,
			Variables:    n.Variables,
			Status:       n.Status,
			ErrorMessage: n.ErrorMessage,
			CreatedAt:    n.CreatedAt,
			SentAt:       n.SentAt,
		})
	}

	return views, nil
}
