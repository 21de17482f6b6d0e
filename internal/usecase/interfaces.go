package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
)

// AccountRepository defines data access for payable accounts.
type AccountRepository interface {
	// Create persists a new account and returns it with the id assigned by the store.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// BulkCreate persists every account inside tx and returns them with ids assigned.
	BulkCreate(ctx context.Context, tx Transaction, accounts []*domain.Account) ([]*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	Update(ctx context.Context, id int64, fields domain.UpdateFields, updatedAt time.Time) (*domain.Account, error)
	SetStatus(ctx context.Context, id int64, status domain.Status, paymentDate *time.Time, updatedAt time.Time) (*domain.Account, error)
	// SearchUnpaid returns accounts whose status is not PAGO, narrowed by filter.
	SearchUnpaid(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.Page, error)
	// SumPaidBetween returns zero, never an error, when nothing matches.
	SumPaidBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Recorder receives domain counters.
type Recorder interface {
	AccountRegistered()
	StatusChanged(status domain.Status)
	AccountsImported(count int)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the caller may retry it.
	Release(ctx context.Context, key string) error
}
