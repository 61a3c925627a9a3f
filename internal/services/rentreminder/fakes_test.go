package rentreminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/rentflow/internal/models"
	"github.com/magabrotheeeer/rentflow/internal/notify"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// memRepo хранилище в памяти с той же семантикой, что и PostgreSQL.
type memRepo struct {
	mu        sync.Mutex
	leases    []*models.Lease
	tenants   map[string]models.Contact
	profiles  []*models.Profile
	reminders map[string]*models.RentReminder
	order     []string
	byKey     map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		tenants:   map[string]models.Contact{},
		reminders: map[string]*models.RentReminder{},
		byKey:     map[string]string{},
	}
}

func (m *memRepo) addLease(id, tenantID, base string, gas string, includesGas, active bool, tenant models.Contact) {
	lease := &models.Lease{
		ID:          id,
		TenantID:    tenantID,
		BaseRent:    decimal.RequireFromString(base),
		IncludesGas: includesGas,
		IsActive:    active,
	}
	if gas != "" {
		lease.GasAmount = decimal.NewNullDecimal(decimal.RequireFromString(gas))
	}
	m.leases = append(m.leases, lease)
	m.tenants[tenantID] = tenant
}

func (m *memRepo) ListActiveLeases(_ context.Context) ([]*models.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Lease
	for _, l := range m.leases {
		if l.IsActive {
			c := *l
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *memRepo) InsertRentReminderIfAbsent(_ context.Context, r models.RentReminder) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.LeaseID + "|" + r.Month.Format(time.DateOnly)
	if _, ok := m.byKey[key]; ok {
		return false, nil
	}
	r.ID = fmt.Sprintf("rr-%d", len(m.order)+1)
	m.byKey[key] = r.ID
	m.order = append(m.order, r.ID)
	m.reminders[r.ID] = &r
	return true, nil
}

func (m *memRepo) ListUnpaidRentReminders(_ context.Context, month time.Time) ([]*models.RentReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.RentReminder
	for _, id := range m.order {
		r := m.reminders[id]
		if !r.Month.Equal(month) || !r.Unpaid() {
			continue
		}
		c := *r
		for _, l := range m.leases {
			if l.ID == r.LeaseID {
				c.Tenant = m.tenants[l.TenantID]
			}
		}
		c.PropertyName = "Maple Court"
		result = append(result, &c)
	}
	return result, nil
}

func (m *memRepo) MarkRentReminderLate(_ context.Context, id string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok || r.Status == models.StatusPaid {
		return repository.ErrNotFound
	}
	r.Status = models.StatusLate
	r.IsLate = true
	if r.LateSince == nil {
		d := day
		r.LateSince = &d
	}
	return nil
}

func (m *memRepo) SetTenantNotified(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.TenantNotifiedAt = &at
	return nil
}

func (m *memRepo) SetAdminNotified(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.AdminNotifiedAt = &at
	return nil
}

func (m *memRepo) ListProfilesByRoles(_ context.Context, roles ...string) ([]*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Profile
	for _, p := range m.profiles {
		for _, role := range roles {
			if p.Role == role {
				c := *p
				result = append(result, &c)
			}
		}
	}
	return result, nil
}

func (m *memRepo) markPaid(leaseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reminders {
		if r.LeaseID == leaseID {
			r.Status = models.StatusPaid
		}
	}
}

func (m *memRepo) all() []models.RentReminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.RentReminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaseID < result[j].LeaseID })
	return result
}

// fakeGateway записывает попытки отправки. Получатели из fail получают ошибку.
// afterSend вызывается после каждой успешной отправки.
type fakeGateway struct {
	mu        sync.Mutex
	channel   notify.Channel
	fail      map[string]error
	block     bool
	afterSend func(notify.Message)
	attempts  []notify.Message
}

func newFakeGateway(channel notify.Channel) *fakeGateway {
	return &fakeGateway{channel: channel, fail: map[string]error{}}
}

func (g *fakeGateway) Channel() notify.Channel {
	return g.channel
}

func (g *fakeGateway) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	g.attempts = append(g.attempts, msg)
	err := g.fail[msg.To]
	block := g.block
	afterSend := g.afterSend
	g.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err == nil && afterSend != nil {
		afterSend(msg)
	}
	return err
}

func (g *fakeGateway) sent() []notify.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notify.Message(nil), g.attempts...)
}

func (g *fakeGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts = nil
}

// MockRepository мок хранилища для проверки обработки ошибок.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListActiveLeases(ctx context.Context) ([]*models.Lease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockRepository) InsertRentReminderIfAbsent(ctx context.Context, r models.RentReminder) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListUnpaidRentReminders(ctx context.Context, month time.Time) ([]*models.RentReminder, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentReminder), args.Error(1)
}

func (m *MockRepository) MarkRentReminderLate(ctx context.Context, id string, day time.Time) error {
	args := m.Called(ctx, id, day)
	return args.Error(0)
}

func (m *MockRepository) SetTenantNotified(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRepository) SetAdminNotified(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRepository) ListProfilesByRoles(ctx context.Context, roles ...string) ([]*models.Profile, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}
