package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/payment"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/purchase"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/quota"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// Compile-time checks that every mock matches its repository interface
var (
	_ user.Repository     = (*MockUserRepository)(nil)
	_ payment.Repository  = (*MockGenerationRepository)(nil)
	_ template.Repository = (*MockTemplateRepository)(nil)
	_ purchase.Repository = (*MockPurchaseRepository)(nil)
	_ quota.Repository    = (*MockQuotaRepository)(nil)
)

// MockUserRepository is a mock implementation of user.Repository. Access
// is guarded by a mutex so credit-consumption races can be tested with
// concurrent goroutines.
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[int64]*user.User
	EmailIndex  map[string]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.Conflict("Email is already registered")
	}
	u.ID = m.NextID
	m.NextID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Users[u.ID]
	if !ok {
		return errors.NotFound("User")
	}
	delete(m.EmailIndex, stored.Email)
	u.UpdatedAt = time.Now()
	copied := *u
	m.Users[u.ID] = &copied
	m.EmailIndex[u.Email] = &copied
	return nil
}

func (m *MockUserRepository) ConsumeCredit(ctx context.Context, id int64) (*user.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, false, errors.NotFound("User")
	}
	if u.QrUsedThisMonth >= u.MonthlyQrLimit {
		copied := *u
		return &copied, false, nil
	}
	u.QrUsedThisMonth++
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, true, nil
}

func (m *MockUserRepository) RefundCredit(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	if u.QrUsedThisMonth > 0 {
		u.QrUsedThisMonth--
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockUserRepository) ResetUsage(ctx context.Context, id int64, nextReset time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.QrUsedThisMonth = 0
	u.LimitResetDate = nextReset
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) ResetAllDue(ctx context.Context, now, nextReset time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.Users {
		if !u.LimitResetDate.After(now) {
			u.QrUsedThisMonth = 0
			u.LimitResetDate = nextReset
			u.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
}

// MockGenerationRepository is a mock implementation of payment.Repository
type MockGenerationRepository struct {
	mu            sync.Mutex
	Generations   map[string]*payment.Generation
	SymbolIndex   map[string]bool
	CreateError   error
	ListError     error
	CreatedOrder  []string
}

func NewMockGenerationRepository() *MockGenerationRepository {
	return &MockGenerationRepository{
		Generations: make(map[string]*payment.Generation),
		SymbolIndex: make(map[string]bool),
	}
}

func (m *MockGenerationRepository) Create(ctx context.Context, g *payment.Generation) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SymbolIndex[g.VariableSymbol] {
		return errors.Conflict("Variable symbol is already used")
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.CreatedAt = time.Now()
	copied := *g
	m.Generations[g.ID] = &copied
	m.SymbolIndex[g.VariableSymbol] = true
	m.CreatedOrder = append(m.CreatedOrder, g.ID)
	return nil
}

func (m *MockGenerationRepository) GetByID(ctx context.Context, userID int64, id string) (*payment.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.Generations[id]
	if !ok || g.UserID == nil || *g.UserID != userID {
		return nil, errors.NotFound("Generation")
	}
	copied := *g
	return &copied, nil
}

func (m *MockGenerationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Generation, int64, error) {
	if m.ListError != nil {
		return nil, 0, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*payment.Generation
	for i := len(m.CreatedOrder) - 1; i >= 0; i-- {
		g := m.Generations[m.CreatedOrder[i]]
		if g.UserID != nil && *g.UserID == userID {
			copied := *g
			all = append(all, &copied)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// MockTemplateRepository is a mock implementation of template.Repository
type MockTemplateRepository struct {
	mu          sync.Mutex
	Templates   map[int64]*template.Template
	NextID      int64
	CreateError error
}

func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{
		Templates: make(map[int64]*template.Template),
		NextID:    1,
	}
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *template.Template) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.NextID
	m.NextID++
	t.IsActive = true
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	copied := *t
	m.Templates[t.ID] = &copied
	return nil
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, userID, id int64) (*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Templates[id]
	if !ok || t.UserID != userID || !t.IsActive {
		return nil, errors.NotFound("Template")
	}
	copied := *t
	return &copied, nil
}

func (m *MockTemplateRepository) ListActive(ctx context.Context, userID int64) ([]*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var templates []*template.Template
	for id := m.NextID - 1; id >= 1; id-- {
		t, ok := m.Templates[id]
		if ok && t.UserID == userID && t.IsActive {
			copied := *t
			templates = append(templates, &copied)
		}
	}
	return templates, nil
}

func (m *MockTemplateRepository) Update(ctx context.Context, t *template.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Templates[t.ID]
	if !ok || stored.UserID != t.UserID || !stored.IsActive {
		return errors.NotFound("Template")
	}
	t.UpdatedAt = time.Now()
	t.UsageCount = stored.UsageCount
	t.IsActive = true
	copied := *t
	m.Templates[t.ID] = &copied
	return nil
}

func (m *MockTemplateRepository) Deactivate(ctx context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Templates[id]
	if !ok || t.UserID != userID || !t.IsActive {
		return errors.NotFound("Template")
	}
	t.IsActive = false
	t.UpdatedAt = time.Now()
	return nil
}

func (m *MockTemplateRepository) IncrementUsage(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Templates[id]; ok {
		t.UsageCount++
		t.UpdatedAt = time.Now()
	}
	return nil
}

// MockPurchaseRepository is a mock implementation of purchase.Repository.
// It applies the user-side change through the user mock so tests see the
// same coupled update the transactional implementation performs.
type MockPurchaseRepository struct {
	mu          sync.Mutex
	Purchases   []*purchase.Purchase
	NextID      int64
	Users       *MockUserRepository
	RecordError error
}

func NewMockPurchaseRepository(users *MockUserRepository) *MockPurchaseRepository {
	return &MockPurchaseRepository{NextID: 1, Users: users}
}

func (m *MockPurchaseRepository) RecordTopUp(ctx context.Context, userID int64, prevLimit, newLimit int, amountCents int64, paymentRef string) (*purchase.Purchase, error) {
	if m.RecordError != nil {
		return nil, m.RecordError
	}
	u, err := m.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.MonthlyQrLimit = newLimit
	u.TopUpCount++
	u.TotalSpentCents += amountCents
	if err := m.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return m.append(userID, purchase.KindTopUp, prevLimit, newLimit, amountCents, paymentRef), nil
}

func (m *MockPurchaseRepository) RecordSubscription(ctx context.Context, userID int64, prevLimit, newLimit int, plan string, amountCents int64, paymentRef string) (*purchase.Purchase, error) {
	if m.RecordError != nil {
		return nil, m.RecordError
	}
	u, err := m.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Plan = plan
	u.MonthlyQrLimit = newLimit
	u.TotalSpentCents += amountCents
	if err := m.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return m.append(userID, purchase.KindSubscription, prevLimit, newLimit, amountCents, paymentRef), nil
}

func (m *MockPurchaseRepository) append(userID int64, kind string, prevLimit, newLimit int, amountCents int64, paymentRef string) *purchase.Purchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &purchase.Purchase{
		ID:            m.NextID,
		UserID:        userID,
		Kind:          kind,
		PreviousLimit: prevLimit,
		NewLimit:      newLimit,
		AmountCents:   amountCents,
		PaymentRef:    paymentRef,
		CreatedAt:     time.Now(),
	}
	m.NextID++
	m.Purchases = append(m.Purchases, p)
	return p
}

func (m *MockPurchaseRepository) ListByUser(ctx context.Context, userID int64) ([]*purchase.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purchases []*purchase.Purchase
	for i := len(m.Purchases) - 1; i >= 0; i-- {
		if m.Purchases[i].UserID == userID {
			copied := *m.Purchases[i]
			purchases = append(purchases, &copied)
		}
	}
	return purchases, nil
}

// MockQuotaRepository is a mock implementation of quota.Repository
type MockQuotaRepository struct {
	mu      sync.Mutex
	Counts  map[string]int
	Starts  map[string]time.Time
	Err     error
}

func NewMockQuotaRepository() *MockQuotaRepository {
	return &MockQuotaRepository{
		Counts: make(map[string]int),
		Starts: make(map[string]time.Time),
	}
}

func (m *MockQuotaRepository) Consume(ctx context.Context, ip string, limit int, window time.Duration) (bool, int, error) {
	if m.Err != nil {
		return false, 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	start, ok := m.Starts[ip]
	if !ok || now.Sub(start) >= window {
		m.Starts[ip] = now
		m.Counts[ip] = 0
	}
	m.Counts[ip]++
	used := m.Counts[ip]
	return used <= limit, used, nil
}
