package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/infrastructure/postgres/generated"
	"github.com/rocksti/pagafacil/internal/usecase"
)

const accountColumns = "id, description, amount, due_date, payment_date, status, import_batch, created_at, updated_at"

var sortColumns = map[domain.SortField]string{
	domain.SortByID:          "id",
	domain.SortByDescription: "description",
	domain.SortByAmount:      "amount",
	domain.SortByDueDate:     "due_date",
	domain.SortByPaymentDate: "payment_date",
	domain.SortByStatus:      "status",
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db      generated.DBTX
	queries *generated.Queries
	logger  zerolog.Logger
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool, logger zerolog.Logger) *AccountRepository {
	return newAccountRepository(pool, logger)
}

func newAccountRepository(db generated.DBTX, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{
		db:      db,
		queries: generated.New(db),
		logger:  logger.With().Str("component", "account_repository").Logger(),
	}
}

// Create inserts an account and returns the stored row.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row, err := r.queries.CreateAccount(ctx, createParams(account))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return rowToAccount(row), nil
}

// BulkCreate inserts every account inside tx. The input slice is never mutated.
func (r *AccountRepository) BulkCreate(ctx context.Context, tx usecase.Transaction, accounts []*domain.Account) ([]*domain.Account, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("unsupported transaction type %T", tx)
	}
	queries := r.queries.WithTx(pgTx.PgxTx())

	saved := make([]*domain.Account, 0, len(accounts))
	for i, account := range accounts {
		row, err := queries.CreateAccount(ctx, createParams(account))
		if err != nil {
			return nil, fmt.Errorf("failed to create account %d of %d: %w", i+1, len(accounts), err)
		}
		saved = append(saved, rowToAccount(row))
	}

	r.logger.Debug().Int("count", len(saved)).Msg("bulk insert complete")
	return saved, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "get")
	}

	return rowToAccount(row), nil
}

// Update overwrites description, amount and due date.
func (r *AccountRepository) Update(ctx context.Context, id int64, fields domain.UpdateFields, updatedAt time.Time) (*domain.Account, error) {
	row, err := r.queries.UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:          id,
		Description: fields.Description,
		Amount:      decimalToNumeric(fields.Amount),
		DueDate:     timeToPgDate(&fields.DueDate),
		UpdatedAt:   timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return nil, mapNotFound(err, "update")
	}

	return rowToAccount(row), nil
}

// SetStatus writes status and payment date together.
func (r *AccountRepository) SetStatus(ctx context.Context, id int64, status domain.Status, paymentDate *time.Time, updatedAt time.Time) (*domain.Account, error) {
	row, err := r.queries.SetAccountStatus(ctx, generated.SetAccountStatusParams{
		ID:          id,
		Status:      string(status),
		PaymentDate: timeToPgDate(paymentDate),
		UpdatedAt:   timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return nil, mapNotFound(err, "set status of")
	}

	return rowToAccount(row), nil
}

// SearchUnpaid lists accounts not in PAGO, optionally narrowed by due date and description.
func (r *AccountRepository) SearchUnpaid(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.Page, error) {
	column, ok := sortColumns[page.Sort]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if page.Desc {
		direction = "DESC"
	}
	orderBy := column + " " + direction
	if column != "id" {
		orderBy += ", id ASC"
	}

	dueDate := timeToPgDate(filter.DueDate)

	query := `SELECT ` + accountColumns + ` FROM accounts
WHERE status <> 'PAGO'
  AND ($1::date IS NULL OR due_date = $1::date)
  AND ($2::text = '' OR description = $2::text)
ORDER BY ` + orderBy + `
LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, dueDate, filter.Description, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer rows.Close()

	content := []*domain.Account{}
	for rows.Next() {
		var row generated.Account
		if err := rows.Scan(
			&row.ID,
			&row.Description,
			&row.Amount,
			&row.DueDate,
			&row.PaymentDate,
			&row.Status,
			&row.ImportBatch,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		content = append(content, rowToAccount(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	total, err := r.queries.CountUnpaidAccounts(ctx, generated.CountUnpaidAccountsParams{
		DueDate:     dueDate,
		Description: filter.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	return &domain.Page{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: total,
	}, nil
}

// SumPaidBetween sums amounts of PAGO accounts with payment date in [start, end].
func (r *AccountRepository) SumPaidBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	sum, err := r.queries.SumPaidBetween(ctx, generated.SumPaidBetweenParams{
		PaymentDate:   timeToPgDate(&start),
		PaymentDate_2: timeToPgDate(&end),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum paid accounts: %w", err)
	}

	return numericToDecimal(sum), nil
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	return fmt.Errorf("failed to %s account: %w", op, err)
}

func createParams(account *domain.Account) generated.CreateAccountParams {
	return generated.CreateAccountParams{
		Description: account.Description,
		Amount:      decimalToNumeric(account.Amount),
		DueDate:     timeToPgDate(&account.DueDate),
		PaymentDate: timeToPgDate(account.PaymentDate),
		Status:      string(account.Status),
		ImportBatch: pgtype.Text{String: account.ImportBatch, Valid: account.ImportBatch != ""},
		CreatedAt:   timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(account.UpdatedAt),
	}
}

func rowToAccount(row generated.Account) *domain.Account {
	account := &domain.Account{
		ID:          row.ID,
		Description: row.Description,
		Amount:      numericToDecimal(row.Amount),
		DueDate:     row.DueDate.Time,
		PaymentDate: pgDateToTime(row.PaymentDate),
		Status:      domain.Status(row.Status),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
	if row.ImportBatch.Valid {
		account.ImportBatch = row.ImportBatch.String
	}

	return account
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: domain.Date(*t), Valid: true}
}

func pgDateToTime(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := domain.Date(d.Time)
	return &t
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
