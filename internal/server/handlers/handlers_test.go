package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finflow/backend/internal/ledger"
	"github.com/finflow/backend/internal/notifications"
	"github.com/finflow/backend/internal/reminders"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/store"
	"github.com/finflow/backend/internal/users"
)

// withUser injects an already-authenticated user, standing in for
// mw.RequireUser in handler tests.
func withUser(u *users.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		mw.SetUser(c, u)
		c.Next()
	}
}

type fakeUsers struct {
	mu    sync.Mutex
	items map[uuid.UUID]*users.User
}

func newFakeUsers(seed ...*users.User) *fakeUsers {
	f := &fakeUsers{items: map[uuid.UUID]*users.User{}}
	for _, u := range seed {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, name, email, phone, hashedPassword string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return nil, users.ErrEmailTaken
		}
		if u.Phone == phone {
			return nil, users.ErrPhoneTaken
		}
	}
	u := &users.User{
		ID: uuid.New(), Name: name, Email: email, Phone: phone,
		HashedPassword: hashedPassword, IsActive: true, CreatedAt: time.Now(),
	}
	f.items[u.ID] = u
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.items[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) FindByPhone(_ context.Context, phone string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, id uuid.UUID, fields users.UpdateFields) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.Email != nil {
		u.Email = *fields.Email
	}
	if fields.Phone != nil {
		u.Phone = *fields.Phone
	}
	if fields.HashedPassword != nil {
		u.HashedPassword = *fields.HashedPassword
	}
	now := time.Now()
	u.UpdatedAt = &now
	return u, nil
}

type fakeRefresh struct {
	mu   sync.Mutex
	jtis map[string]bool
}

func newFakeRefresh() *fakeRefresh {
	return &fakeRefresh{jtis: map[string]bool{}}
}

func (f *fakeRefresh) Put(_ context.Context, userID, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jtis[userID+":"+jti] = true
	return nil
}

func (f *fakeRefresh) Consume(_ context.Context, userID, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + ":" + jti
	if !f.jtis[key] {
		return store.ErrRefreshInvalid
	}
	delete(f.jtis, key)
	return nil
}

type fakeTxs struct {
	mu    sync.Mutex
	items map[uuid.UUID]*ledger.Transaction
}

func newFakeTxs() *fakeTxs {
	return &fakeTxs{items: map[uuid.UUID]*ledger.Transaction{}}
}

func (f *fakeTxs) Create(_ context.Context, userID uuid.UUID, p ledger.CreateParams) (*ledger.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &ledger.Transaction{
		ID: uuid.New(), UserID: userID, Name: p.Name, Amount: p.Amount,
		Type: p.Type, Category: p.Category, Date: p.Date, CreatedAt: time.Now(),
	}
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTxs) ListByUser(_ context.Context, userID uuid.UUID, skip, limit int) ([]ledger.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []ledger.Transaction{}
	for _, t := range f.items {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTxs) FindByID(_ context.Context, userID, id uuid.UUID) (*ledger.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return t, nil
}

func (f *fakeTxs) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTxs) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.items {
		if t.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeReminders struct {
	mu    sync.Mutex
	items map[uuid.UUID]*reminders.Reminder
}

func newFakeReminders() *fakeReminders {
	return &fakeReminders{items: map[uuid.UUID]*reminders.Reminder{}}
}

func (f *fakeReminders) Create(_ context.Context, userID uuid.UUID, p reminders.CreateParams) (*reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &reminders.Reminder{
		ID: uuid.New(), UserID: userID, Name: p.Name, Active: p.Active,
		NextDate: p.NextDate, Category: p.Category, Amount: p.Amount,
		Frequency: p.Frequency, Description: p.Description, CreatedAt: time.Now(),
	}
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeReminders) ListByUser(_ context.Context, userID uuid.UUID, skip, limit int) ([]reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []reminders.Reminder{}
	for _, m := range f.items {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeReminders) FindByID(_ context.Context, userID, id uuid.UUID) (*reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok || m.UserID != userID {
		return nil, reminders.ErrNotFound
	}
	return m, nil
}

func (f *fakeReminders) Update(_ context.Context, userID, id uuid.UUID, u reminders.UpdateFields) (*reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok || m.UserID != userID {
		return nil, reminders.ErrNotFound
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Active != nil {
		m.Active = *u.Active
	}
	if u.NextDate != nil {
		m.NextDate = *u.NextDate
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Amount != nil {
		m.Amount = *u.Amount
	}
	if u.Frequency != nil {
		m.Frequency = *u.Frequency
	}
	if u.Description != nil {
		m.Description = u.Description
	}
	now := time.Now()
	m.UpdatedAt = &now
	return m, nil
}

func (f *fakeReminders) Delete(_ context.Context, userID, id uuid.UUID) (*reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok || m.UserID != userID {
		return nil, reminders.ErrNotFound
	}
	delete(f.items, id)
	return m, nil
}

func (f *fakeReminders) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.items {
		if m.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

// fakeNotifs mimics the repo's action semantics against fakeReminders and
// fakeTxs so handler tests can observe cross-store effects.
type fakeNotifs struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*notifications.Notification
	reminders *fakeReminders
	txs       *fakeTxs
}

func newFakeNotifs(rem *fakeReminders, txs *fakeTxs) *fakeNotifs {
	return &fakeNotifs{
		items:     map[uuid.UUID]*notifications.Notification{},
		reminders: rem,
		txs:       txs,
	}
}

func (f *fakeNotifs) Create(_ context.Context, userID, reminderID uuid.UUID, name string, date time.Time) (*notifications.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &notifications.Notification{
		ID: uuid.New(), UserID: userID, ReminderID: reminderID,
		Name: name, Date: date, CreatedAt: time.Now(),
	}
	f.items[n.ID] = n
	return n, nil
}

func (f *fakeNotifs) ListByUser(_ context.Context, userID uuid.UUID) ([]notifications.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notifications.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotifs) take(userID, id uuid.UUID) (*notifications.Notification, *reminders.Reminder, error) {
	n, ok := f.items[id]
	if !ok || n.UserID != userID {
		return nil, nil, notifications.ErrNotFound
	}
	rem, ok := f.reminders.items[n.ReminderID]
	if !ok {
		return nil, nil, notifications.ErrNoReminder
	}
	return n, rem, nil
}

func (f *fakeNotifs) Accept(ctx context.Context, userID, id uuid.UUID) (*notifications.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, rem, err := f.take(userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := f.txs.Create(ctx, userID, ledger.CreateParams{
		Name: "Payment for " + n.Name, Amount: rem.Amount,
		Type: ledger.TypeOutcome, Category: "Reminder Payment", Date: time.Now(),
	}); err != nil {
		return nil, err
	}
	rem.NextDate = rem.NextDate.AddDate(0, 0, rem.Frequency)
	delete(f.items, id)
	return n, nil
}

func (f *fakeNotifs) Refuse(_ context.Context, userID, id uuid.UUID) (*notifications.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, rem, err := f.take(userID, id)
	if err != nil {
		return nil, err
	}
	rem.NextDate = rem.NextDate.AddDate(0, 0, rem.Frequency)
	delete(f.items, id)
	return n, nil
}

func (f *fakeNotifs) Extend(_ context.Context, userID, id uuid.UUID) (*notifications.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok || n.UserID != userID {
		return nil, notifications.ErrNotFound
	}
	n.Date = n.Date.AddDate(0, 0, 1)
	now := time.Now()
	n.UpdatedAt = &now
	return n, nil
}

func (f *fakeNotifs) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range f.items {
		if n.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}
