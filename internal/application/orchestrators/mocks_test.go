package orchestrators

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	emailAdapter "fitpro/internal/adapters/email"
	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/membership"
	"fitpro/internal/domain/payment"
	"fitpro/internal/domain/plan"
	"fitpro/internal/domain/profile"
	"fitpro/internal/domain/trainer"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

// noTx runs fn directly; mock stores have no transactions.
type noTx struct{}

func (noTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// mockAccountStore implements the account store interfaces for testing.
type mockAccountStore struct {
	byID map[string]account.Account
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{byID: make(map[string]account.Account)}
	for _, a := range accts {
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.byID {
		if a.Email == account.NormalizeEmail(email) {
			return a, nil
		}
	}
	return account.Account{}, storage.ErrNotFound
}

func (m *mockAccountStore) Create(_ context.Context, a account.Account) error {
	if _, ok := m.byID[a.ID]; ok {
		return storage.ErrConflict
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

// mockProfileStore implements the profile store interfaces for testing.
type mockProfileStore struct {
	profiles map[string]profile.Profile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]profile.Profile)}
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

// mockPlanStore implements the plan store interfaces for testing.
type mockPlanStore struct {
	plans map[string]plan.Plan
}

func newMockPlanStore(plans ...plan.Plan) *mockPlanStore {
	m := &mockPlanStore{plans: make(map[string]plan.Plan)}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockPlanStore) GetByID(_ context.Context, id string) (plan.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return plan.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *mockPlanStore) Save(_ context.Context, p plan.Plan) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanStore) Count(_ context.Context) (int, error) {
	return len(m.plans), nil
}

// mockMembershipStore implements the membership store interfaces for testing.
type mockMembershipStore struct {
	memberships map[string]membership.Membership
}

func newMockMembershipStore(ms ...membership.Membership) *mockMembershipStore {
	m := &mockMembershipStore{memberships: make(map[string]membership.Membership)}
	for _, ms := range ms {
		m.memberships[ms.ID] = ms
	}
	return m
}

func (m *mockMembershipStore) Create(_ context.Context, ms membership.Membership) error {
	for _, existing := range m.memberships {
		if existing.UserID == ms.UserID && existing.IsActive() && ms.IsActive() {
			return storage.ErrConflict
		}
	}
	m.memberships[ms.ID] = ms
	return nil
}

func (m *mockMembershipStore) Save(_ context.Context, ms membership.Membership) error {
	m.memberships[ms.ID] = ms
	return nil
}

func (m *mockMembershipStore) GetActiveByUser(_ context.Context, userID string) (membership.Membership, error) {
	for _, ms := range m.memberships {
		if ms.UserID == userID && ms.IsActive() {
			return ms, nil
		}
	}
	return membership.Membership{}, storage.ErrNotFound
}

func (m *mockMembershipStore) ListLapsed(_ context.Context, today string) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, ms := range m.memberships {
		if ms.IsLapsed(today) {
			out = append(out, ms)
		}
	}
	return out, nil
}

// mockAttendanceStore implements AttendanceStoreForCheckIn for testing.
type mockAttendanceStore struct {
	records map[string]attendance.Attendance
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{records: make(map[string]attendance.Attendance)}
}

func (m *mockAttendanceStore) Create(_ context.Context, a attendance.Attendance) error {
	m.records[a.ID] = a
	return nil
}

func (m *mockAttendanceStore) Save(_ context.Context, a attendance.Attendance) error {
	m.records[a.ID] = a
	return nil
}

func (m *mockAttendanceStore) GetOpenByUser(_ context.Context, userID string) (attendance.Attendance, error) {
	for _, a := range m.records {
		if a.UserID == userID && a.IsOpen() {
			return a, nil
		}
	}
	return attendance.Attendance{}, storage.ErrNotFound
}

// mockPaymentStore implements PaymentStoreForRecord for testing.
type mockPaymentStore struct {
	payments []payment.Payment
}

func (m *mockPaymentStore) Create(_ context.Context, p payment.Payment) error {
	m.payments = append(m.payments, p)
	return nil
}

// mockTrainerStore implements TrainerStoreForCatalog for testing.
type mockTrainerStore struct {
	trainers map[string]trainer.Trainer
}

func newMockTrainerStore(ts ...trainer.Trainer) *mockTrainerStore {
	m := &mockTrainerStore{trainers: make(map[string]trainer.Trainer)}
	for _, t := range ts {
		m.trainers[t.ID] = t
	}
	return m
}

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	t, ok := m.trainers[id]
	if !ok {
		return trainer.Trainer{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *mockTrainerStore) Save(_ context.Context, t trainer.Trainer) error {
	m.trainers[t.ID] = t
	return nil
}

// mockClassStore implements ClassStoreForCatalog for testing.
type mockClassStore struct {
	classes map[string]class.Class
}

func newMockClassStore(cs ...class.Class) *mockClassStore {
	m := &mockClassStore{classes: make(map[string]class.Class)}
	for _, c := range cs {
		m.classes[c.ID] = c
	}
	return m
}

func (m *mockClassStore) GetByID(_ context.Context, id string) (class.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return class.Class{}, storage.ErrNotFound
	}
	return c, nil
}

func (m *mockClassStore) Save(_ context.Context, c class.Class) error {
	m.classes[c.ID] = c
	return nil
}

// recordingMailer captures sent emails and optionally fails.
type recordingMailer struct {
	mu   sync.Mutex
	sent []emailAdapter.SendRequest
	err  error
}

func (m *recordingMailer) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: "msg-1", SentAt: fixedTime}, nil
}

var errBoom = errors.New("boom")
