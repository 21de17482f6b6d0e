package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/usecase"
)

// InMemoryAccountRepository is an in-memory implementation of AccountRepository.
// Set a *Func field to override the corresponding method.
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	BulkCreateFunc func(ctx context.Context, tx usecase.Transaction, accounts []*domain.Account) ([]*domain.Account, error)
}

func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

func (m *InMemoryAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(account), nil
}

func (m *InMemoryAccountRepository) BulkCreate(ctx context.Context, tx usecase.Transaction, accounts []*domain.Account) ([]*domain.Account, error) {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, tx, accounts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]*domain.Account, len(accounts))
	for i, acc := range accounts {
		saved[i] = m.insert(acc)
	}
	return saved, nil
}

func (m *InMemoryAccountRepository) insert(account *domain.Account) *domain.Account {
	m.nextID++
	stored := *account
	stored.ID = m.nextID
	m.accounts[stored.ID] = &stored
	out := stored
	return &out
}

func (m *InMemoryAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		out := *acc
		return &out, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *InMemoryAccountRepository) Update(ctx context.Context, id int64, fields domain.UpdateFields, updatedAt time.Time) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	acc.Description = fields.Description
	acc.Amount = fields.Amount
	acc.DueDate = fields.DueDate
	acc.UpdatedAt = updatedAt
	out := *acc
	return &out, nil
}

func (m *InMemoryAccountRepository) SetStatus(ctx context.Context, id int64, status domain.Status, paymentDate *time.Time, updatedAt time.Time) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	acc.Status = status
	acc.PaymentDate = paymentDate
	acc.UpdatedAt = updatedAt
	out := *acc
	return &out, nil
}

func (m *InMemoryAccountRepository) SearchUnpaid(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Account
	for _, acc := range m.accounts {
		if acc.Status == domain.StatusPaid {
			continue
		}
		if filter.DueDate != nil && !acc.DueDate.Equal(*filter.DueDate) {
			continue
		}
		if filter.Description != "" && acc.Description != filter.Description {
			continue
		}
		out := *acc
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	result := &domain.Page{
		Content:       []*domain.Account{},
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: int64(len(matched)),
	}
	start := page.Offset()
	if start < len(matched) {
		end := start + page.Size
		if end > len(matched) {
			end = len(matched)
		}
		result.Content = matched[start:end]
	}
	return result, nil
}

func (m *InMemoryAccountRepository) SumPaidBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, acc := range m.accounts {
		if acc.Status != domain.StatusPaid || acc.PaymentDate == nil {
			continue
		}
		if acc.PaymentDate.Before(start) || acc.PaymentDate.After(end) {
			continue
		}
		total = total.Add(acc.Amount)
	}
	return total, nil
}

// Len returns the number of stored accounts.
func (m *InMemoryAccountRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

// FakeTransactionManager hands out no-op transactions.
type FakeTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewFakeTransactionManager() *FakeTransactionManager {
	return &FakeTransactionManager{}
}

func (m *FakeTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &FakeTransaction{}, nil
}

// FakeTransaction is a no-op Transaction.
type FakeTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *FakeTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *FakeTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// OnceRetrier runs the operation exactly once.
type OnceRetrier struct{}

func (OnceRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// FakeIDGenerator returns a fixed id.
type FakeIDGenerator struct {
	ID string
}

func (g FakeIDGenerator) Generate() string {
	if g.ID == "" {
		return "01J8Z6Q3M2V7C5X9T4B1N0K8HD"
	}
	return g.ID
}

// NopRecorder discards metrics.
type NopRecorder struct{}

func (NopRecorder) AccountRegistered()          {}
func (NopRecorder) StatusChanged(domain.Status) {}
func (NopRecorder) AccountsImported(int)        {}

// InMemoryIdempotencyStore is an in-memory implementation of IdempotencyStore.
type InMemoryIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *InMemoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyProcessing)
	}
	return false, nil, nil
}

func (m *InMemoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
