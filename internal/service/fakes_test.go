package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/external"
)

var errStore = errors.New("store unavailable")

type fakeEventRepo struct {
	mu     sync.Mutex
	events []domain.WebhookEvent
	err    error
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.WebhookEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, limit, offset int) ([]domain.WebhookEvent, int, error) {
	return f.events, len(f.events), nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*domain.Property
	createErr  error
	lastStatus domain.PropertyStatus
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: map[uuid.UUID]*domain.Property{}}
}

func (f *fakePropertyRepo) Create(_ context.Context, p *domain.Property) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[p.ID] = p
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePropertyRepo) List(_ context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int, error) {
	f.lastStatus = status
	var out []domain.Property
	for _, p := range f.properties {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakePropertyRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.PropertyStatus) error {
	p, ok := f.properties[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.properties[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyRepo) only() *domain.Property {
	for _, p := range f.properties {
		return p
	}
	return nil
}

type fakeNewsRepo struct {
	items []domain.News
}

func (f *fakeNewsRepo) Create(_ context.Context, n *domain.News) error {
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNewsRepo) List(_ context.Context, limit, offset int) ([]domain.News, int, error) {
	return f.items, len(f.items), nil
}

func (f *fakeNewsRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeQueue struct {
	mu          sync.Mutex
	pending     []domain.EmailNotification
	claimErr    error
	markSentErr error
	staleSweeps []time.Duration
	sent        map[uuid.UUID]time.Time
	failed      map[uuid.UUID]string
}

func newFakeQueue(items ...domain.EmailNotification) *fakeQueue {
	return &fakeQueue{pending: items, sent: map[uuid.UUID]time.Time{}, failed: map[uuid.UUID]string{}}
}

func (f *fakeQueue) ClaimPending(_ context.Context, limit int) ([]domain.EmailNotification, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := min(limit, len(f.pending))
	claimed := f.pending[:n]
	f.pending = f.pending[n:]
	return claimed, nil
}

func (f *fakeQueue) MarkSent(_ context.Context, id uuid.UUID, at time.Time) error {
	if f.markSentErr != nil {
		return f.markSentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[id] = at
	return nil
}

func (f *fakeQueue) FailStale(_ context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staleSweeps = append(f.staleSweeps, olderThan)
	return 0, nil
}

func (f *fakeQueue) MarkFailed(_ context.Context, id uuid.UUID, reason string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = reason
	return nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []domain.ContactSubmission
	failOn string
}

func (f *fakeSender) Send(_ context.Context, sub domain.ContactSubmission) error {
	if f.failOn != "" && sub.Name == f.failOn {
		return errors.New("resend: status 422: rejected")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub)
	return nil
}

type fakeNotificationRepo struct {
	created []domain.EmailNotification
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.EmailNotification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *n)
	return nil
}

type fakeCompleter struct {
	got   []external.ChatMessage
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, messages []external.ChatMessage) (string, error) {
	f.got = messages
	return f.reply, f.err
}

type recordingProvider struct {
	mu   sync.Mutex
	sent []external.Email
}

func (r *recordingProvider) Send(_ context.Context, e external.Email) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
	return "msg_test", nil
}
