package notification

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"notifyme/internal/common"
	"notifyme/internal/domain/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fakes
// ==========================

// fakeStore is an in-memory notification.Store that counts writes.
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	records []*Notification
	inserts int
	updates int

	insertErr error
	updateErr error
}

func (f *fakeStore) Insert(_ context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.seq++
	f.inserts++
	n.ID = fmt.Sprintf("n-%d", f.seq)
	n.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
	stored := *n
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeStore) Update(_ context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	for i, r := range f.records {
		if r.ID == n.ID {
			stored := *n
			stored.CreatedAt = r.CreatedAt
			f.records[i] = &stored
			return nil
		}
	}
	return fmt.Errorf("no record with id %s", n.ID)
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			found := *r
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(_ context.Context) ([]*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Notification, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0; i-- {
		found := *f.records[i]
		out = append(out, &found)
	}
	return out, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status Status) ([]*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Notification, 0)
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Status == status {
			found := *f.records[i]
			out = append(out, &found)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

func (f *fakeStore) CountByStatus(_ context.Context, status Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// fakeResolver serves templates from a map.
type fakeResolver struct {
	templates map[string]*template.Template
}

func (f *fakeResolver) GetByID(_ context.Context, id string) (*template.Template, error) {
	return f.templates[id], nil
}

// fakeRenderer performs the same literal substitution as the real engine.
type fakeRenderer struct{}

func (fakeRenderer) Render(pattern string, vars map[string]any) string {
	for key, value := range vars {
		pattern = strings.ReplaceAll(pattern, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return pattern
}

// fakeSender records sent messages and fails on demand.
type fakeSender struct {
	err  error
	sent []*Message
}

func (f *fakeSender) Send(_ context.Context, msg *Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// ==========================
// Test Helpers
// ==========================

func welcomeTemplate() *template.Template {
	return &template.Template{
		ID:      "tpl-1",
		Name:    "welcome",
		Subject: "Welcome {{name}}",
		Body:    "Hello {{name}}, glad to have you.",
	}
}

func newTestService(store *fakeStore, sender *fakeSender) *Service {
	resolver := &fakeResolver{templates: map[string]*template.Template{
		"tpl-1": welcomeTemplate(),
	}}
	return NewService(store, resolver, fakeRenderer{}, sender)
}

// ==========================
// Dispatch Tests
// ==========================

func TestService_Dispatch_Sent(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	n, err := svc.Dispatch(context.Background(), &SendRequest{
		Recipient:  "alice@example.com",
		TemplateID: "tpl-1",
		Variables:  map[string]any{"name": "Alice"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, n.Status)
	require.NotNil(t, n.SentAt)
	assert.Empty(t, n.ErrorMessage)
	assert.NotEmpty(t, n.ID)
	assert.JSONEq(t, `{"name":"Alice"}`, n.Variables)

	// Exactly one insert and one update
	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 1, store.updates)

	// Exactly one delivery attempt, with rendered subject and body
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].To)
	assert.Equal(t, "Welcome Alice", sender.sent[0].Subject)
	assert.Equal(t, "Hello Alice, glad to have you.", sender.sent[0].Body)

	// The persisted record matches the returned one
	persisted, err := store.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, StatusSent, persisted.Status)
}

func TestService_Dispatch_DeliveryFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{err: common.NewProviderError("resend", "mailbox unavailable")}
	svc := newTestService(store, sender)

	n, err := svc.Dispatch(context.Background(), &SendRequest{
		Recipient:  "bob@example.com",
		TemplateID: "tpl-1",
		Variables:  map[string]any{"name": "Bob"},
	})
	require.NoError(t, err, "delivery failure must not propagate to the caller")

	assert.Equal(t, StatusFailed, n.Status)
	assert.Equal(t, "resend provider error: mailbox unavailable", n.ErrorMessage)
	assert.Nil(t, n.SentAt)

	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 1, store.updates)

	persisted, err := store.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, StatusFailed, persisted.Status)
	assert.Equal(t, n.ErrorMessage, persisted.ErrorMessage)
}

func TestService_Dispatch_InvalidRecipient(t *testing.T) {
	recipients := []string{"not-an-email", "", "@example.com", "spaced name@example.com"}

	for _, recipient := range recipients {
		t.Run(fmt.Sprintf("recipient %q", recipient), func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(store, &fakeSender{})

			_, err := svc.Dispatch(context.Background(), &SendRequest{
				Recipient:  recipient,
				TemplateID: "tpl-1",
			})

			var validation *common.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, "invalid recipient", validation.Message)
			assert.Equal(t, 0, store.inserts, "no record may be created")
		})
	}
}

func TestService_Dispatch_TemplateNotFound(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeSender{})

	_, err := svc.Dispatch(context.Background(), &SendRequest{
		Recipient:  "alice@example.com",
		TemplateID: "missing",
	})

	var validation *common.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "template not found", validation.Message)
	assert.Equal(t, 0, store.inserts)
}

func TestService_Dispatch_InvalidVariables(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeSender{})

	_, err := svc.Dispatch(context.Background(), &SendRequest{
		Recipient:  "alice@example.com",
		TemplateID: "tpl-1",
		Variables:  map[string]any{"bad": math.Inf(1)},
	})

	var validation *common.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "invalid variables", validation.Message)
	assert.Equal(t, 0, store.inserts)
}

// ==========================
// Query Tests
// ==========================

func dispatchN(t *testing.T, svc *Service, sender *fakeSender, n int, failEvery int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if failEvery > 0 && i%failEvery == 0 {
			sender.err = common.NewProviderError("resend", "boom")
		} else {
			sender.err = nil
		}
		_, err := svc.Dispatch(context.Background(), &SendRequest{
			Recipient:  fmt.Sprintf("user%d@example.com", i),
			TemplateID: "tpl-1",
		})
		require.NoError(t, err)
	}
}

func TestService_List_StatusFilterNewestFirst(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	dispatchN(t, svc, sender, 6, 3)

	views, err := svc.List(context.Background(), "sent")
	require.NoError(t, err)
	require.Len(t, views, 4)

	for i, v := range views {
		assert.Equal(t, StatusSent, v.Status)
		require.NotNil(t, v.Template)
		assert.Equal(t, "welcome", v.Template.Name)
		if i > 0 {
			assert.False(t, v.CreatedAt.After(views[i-1].CreatedAt), "must be ordered newest first")
		}
	}
}

func TestService_List_UnknownStatus(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeSender{})

	_, err := svc.List(context.Background(), "delivered")

	var validation *common.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "unknown status")
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeSender{})

	_, err := svc.Get(context.Background(), "missing")

	var notFound *common.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestService_Stats_Sum(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	dispatchN(t, svc, sender, 7, 2)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.TotalNotifications)
	assert.Equal(t, stats.TotalNotifications,
		stats.SentNotifications+stats.FailedNotifications+stats.PendingNotifications)
	assert.Zero(t, stats.PendingNotifications, "no record may stay PENDING after dispatch returns")
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "SENT", want: StatusSent},
		{in: "sent", want: StatusSent},
		{in: "Failed", want: StatusFailed},
		{in: "pending", want: StatusPending},
		{in: "delivered", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				var validation *common.ValidationError
				assert.ErrorAs(t, err, &validation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
