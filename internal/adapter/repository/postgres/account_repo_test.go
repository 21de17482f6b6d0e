package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/usecase/mocks"
)

var accountRowColumns = []string{
	"id", "description", "amount", "due_date", "payment_date", "status", "import_batch", "created_at", "updated_at",
}

var (
	testDueDate = time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC)
	testNow     = time.Date(2024, 9, 20, 14, 30, 0, 0, time.UTC)
)

func numeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	require.NoError(t, n.Scan(s))
	return n
}

func accountRows(t *testing.T) *pgxmock.Rows {
	return pgxmock.NewRows(accountRowColumns)
}

func addAccountRow(t *testing.T, rows *pgxmock.Rows, id int64, description, amount string, paymentDate pgtype.Date, status string) *pgxmock.Rows {
	return rows.AddRow(
		id,
		description,
		numeric(t, amount),
		pgtype.Date{Time: testDueDate, Valid: true},
		paymentDate,
		status,
		pgtype.Text{},
		pgtype.Timestamptz{Time: testNow, Valid: true},
		pgtype.Timestamptz{Time: testNow, Valid: true},
	)
}

func newTestRepo(t *testing.T) (*AccountRepository, pgxmock.PgxPoolIface) {
	mock := newMockPool(t)
	return newAccountRepository(mock, zerolog.Nop()), mock
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)

	account := domain.NewPendingAccount("Electric bill", decimal.RequireFromString("100.00"), testDueDate)
	account.CreatedAt = testNow
	account.UpdatedAt = testNow

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO accounts`).
			WithArgs("Electric bill", pgxmock.AnyArg(), pgtype.Date{Time: testDueDate, Valid: true}, pgtype.Date{},
				"PENDENTE", pgtype.Text{}, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(addAccountRow(t, accountRows(t), 7, "Electric bill", "100.00", pgtype.Date{}, "PENDENTE"))

		saved, err := repo.Create(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(7), saved.ID)
		assert.Equal(t, "100", saved.Amount.String())
		assert.Equal(t, domain.StatusPending, saved.Status)
		assert.Nil(t, saved.PaymentDate)
		assert.True(t, saved.DueDate.Equal(testDueDate))
		assert.Zero(t, account.ID, "input must not be mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(dbErr)

		_, err := repo.Create(ctx, account)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)

	t.Run("success", func(t *testing.T) {
		paid := pgtype.Date{Time: testNow, Valid: true}
		mock.ExpectQuery(`FROM accounts WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(addAccountRow(t, accountRows(t), 3, "Rent", "1500.50", paid, "PAGO"))

		account, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
		assert.Equal(t, "1500.5", account.Amount.String())
		assert.Equal(t, domain.StatusPaid, account.Status)
		require.NotNil(t, account.PaymentDate)
		assert.Equal(t, "2024-09-20", account.PaymentDate.Format(domain.DateLayout))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM accounts WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		account, err := repo.GetByID(ctx, 99)
		assert.Nil(t, account)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		mock.ExpectQuery(`FROM accounts WHERE id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(accountRows(t))

		_, err := repo.GetByID(ctx, 100)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)
	fields := domain.UpdateFields{
		Description: "Rent (Oct)",
		Amount:      decimal.RequireFromString("1600"),
		DueDate:     testDueDate,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE accounts SET description`).
			WithArgs(int64(3), "Rent (Oct)", pgxmock.AnyArg(), pgtype.Date{Time: testDueDate, Valid: true},
				pgtype.Timestamptz{Time: testNow, Valid: true}).
			WillReturnRows(addAccountRow(t, accountRows(t), 3, "Rent (Oct)", "1600.00", pgtype.Date{}, "PENDENTE"))

		account, err := repo.Update(ctx, 3, fields, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Rent (Oct)", account.Description)
		assert.Equal(t, "1600", account.Amount.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE accounts SET description`).WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(ctx, 42, fields, testNow)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)
	today := time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)

	t.Run("paid writes payment date", func(t *testing.T) {
		paid := pgtype.Date{Time: today, Valid: true}
		mock.ExpectQuery(`UPDATE accounts SET status`).
			WithArgs(int64(3), "PAGO", paid, pgtype.Timestamptz{Time: testNow, Valid: true}).
			WillReturnRows(addAccountRow(t, accountRows(t), 3, "Rent", "10", paid, "PAGO"))

		account, err := repo.SetStatus(ctx, 3, domain.StatusPaid, &today, testNow)
		require.NoError(t, err)
		require.NotNil(t, account.PaymentDate)
		assert.True(t, account.PaymentDate.Equal(today))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending clears payment date", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE accounts SET status`).
			WithArgs(int64(3), "PENDENTE", pgtype.Date{}, pgtype.Timestamptz{Time: testNow, Valid: true}).
			WillReturnRows(addAccountRow(t, accountRows(t), 3, "Rent", "10", pgtype.Date{}, "PENDENTE"))

		account, err := repo.SetStatus(ctx, 3, domain.StatusPending, nil, testNow)
		require.NoError(t, err)
		assert.Nil(t, account.PaymentDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE accounts SET status`).WillReturnError(pgx.ErrNoRows)

		_, err := repo.SetStatus(ctx, 9, domain.StatusPaid, &today, testNow)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SearchUnpaid(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)
	due := testDueDate

	rows := accountRows(t)
	addAccountRow(t, rows, 4, "Water", "45.00", pgtype.Date{}, "PENDENTE")
	addAccountRow(t, rows, 2, "Gas", "30.00", pgtype.Date{}, "PENDENTE")

	mock.ExpectQuery(`WHERE status <> 'PAGO'.*ORDER BY amount DESC, id ASC LIMIT \$3 OFFSET \$4`).
		WithArgs(pgtype.Date{Time: due, Valid: true}, "", 2, 2).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WithArgs(pgtype.Date{Time: due, Valid: true}, "").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	page, err := repo.SearchUnpaid(ctx,
		domain.SearchFilter{DueDate: &due},
		domain.PageRequest{Page: 1, Size: 2, Sort: domain.SortByAmount, Desc: true})
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(4), page.Content[0].ID)
	assert.Equal(t, int64(2), page.Content[1].ID)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SearchUnpaid_DefaultsToIDOrder(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`ORDER BY id ASC LIMIT`).
		WithArgs(pgtype.Date{}, "Rent", 20, 0).
		WillReturnRows(accountRows(t))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WithArgs(pgtype.Date{}, "Rent").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	page, err := repo.SearchUnpaid(ctx, domain.SearchFilter{Description: "Rent"}, domain.PageRequest{Size: 20})
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SumPaidBetween(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)

	t.Run("sum", func(t *testing.T) {
		mock.ExpectQuery(`SUM\(amount\)`).
			WithArgs(pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true}).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(numeric(t, "145.50")))

		total, err := repo.SumPaidBetween(ctx, start, end)
		require.NoError(t, err)
		assert.Equal(t, "145.5", total.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null sum is zero", func(t *testing.T) {
		mock.ExpectQuery(`SUM\(amount\)`).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(pgtype.Numeric{}))

		total, err := repo.SumPaidBetween(ctx, start, end)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_BulkCreate(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTestRepo(t)

	accounts := []*domain.Account{
		domain.NewPendingAccount("A", decimal.NewFromInt(1), testDueDate),
		domain.NewPendingAccount("B", decimal.NewFromInt(2), testDueDate),
	}
	for _, a := range accounts {
		a.ImportBatch = "01J8Z6Q3M2V7C5X9T4B1N0K8HD"
		a.CreatedAt, a.UpdatedAt = testNow, testNow
	}
	batch := pgtype.Text{String: "01J8Z6Q3M2V7C5X9T4B1N0K8HD", Valid: true}

	t.Run("inserts inside transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO accounts`).
			WithArgs("A", pgxmock.AnyArg(), pgxmock.AnyArg(), pgtype.Date{}, "PENDENTE", batch, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(addAccountRow(t, accountRows(t), 10, "A", "1", pgtype.Date{}, "PENDENTE"))
		mock.ExpectQuery(`INSERT INTO accounts`).
			WithArgs("B", pgxmock.AnyArg(), pgxmock.AnyArg(), pgtype.Date{}, "PENDENTE", batch, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(addAccountRow(t, accountRows(t), 11, "B", "2", pgtype.Date{}, "PENDENTE"))
		mock.ExpectCommit()

		tx, err := newTxManagerWithPool(mock).Begin(ctx)
		require.NoError(t, err)

		saved, err := repo.BulkCreate(ctx, tx, accounts)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		require.Len(t, saved, 2)
		assert.Equal(t, int64(10), saved[0].ID)
		assert.Equal(t, int64(11), saved[1].ID)
		assert.Zero(t, accounts[0].ID, "input must not be mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure returns no rows", func(t *testing.T) {
		dbErr := errors.New("unique violation")
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnRows(addAccountRow(t, accountRows(t), 12, "A", "1", pgtype.Date{}, "PENDENTE"))
		mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(dbErr)
		mock.ExpectRollback()

		tx, err := newTxManagerWithPool(mock).Begin(ctx)
		require.NoError(t, err)

		saved, err := repo.BulkCreate(ctx, tx, accounts)
		assert.Nil(t, saved)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "account 2 of 2")
		require.NoError(t, tx.Rollback(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects foreign transaction", func(t *testing.T) {
		_, err := repo.BulkCreate(ctx, &mocks.FakeTransaction{}, accounts)
		assert.Error(t, err)
	})
}
