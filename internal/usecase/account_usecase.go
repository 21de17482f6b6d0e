package usecase

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/importer"
)

// AccountUseCase handles payable account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	txManager   TransactionManager
	retrier     Retrier
	idGen       IDGenerator
	recorder    Recorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	txManager TransactionManager,
	retrier Retrier,
	idGen IDGenerator,
	recorder Recorder,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		txManager:   txManager,
		retrier:     retrier,
		idGen:       idGen,
		recorder:    recorder,
		logger:      logger.With().Str("component", "account_usecase").Logger(),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for payment dates and timestamps.
func (uc *AccountUseCase) WithClock(now func() time.Time) *AccountUseCase {
	uc.now = now
	return uc
}

// AccountInput carries the caller-editable fields of an account.
type AccountInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// RegisterAccount creates a new account in the PENDENTE state.
func (uc *AccountUseCase) RegisterAccount(ctx context.Context, input AccountInput) (*domain.Account, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	account := domain.NewPendingAccount(input.Description, input.Amount, input.DueDate)
	account.CreatedAt = now
	account.UpdatedAt = now

	created, err := uc.accountRepo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	uc.recorder.AccountRegistered()
	uc.logger.Info().Int64("account_id", created.ID).Msg("account registered")

	return created, nil
}

// UpdateAccount overwrites description, amount and due date. Status is untouched.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id int64, input AccountInput) (*domain.Account, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.Update(ctx, id, domain.UpdateFields{
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     domain.Date(input.DueDate),
	}, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Int64("account_id", id).Msg("account updated")

	return account, nil
}

// ChangeStatus moves an account to status. PAGO stamps today's date as the
// payment date; any other status clears it.
func (uc *AccountUseCase) ChangeStatus(ctx context.Context, id int64, status domain.Status) (*domain.Account, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("invalid status: " + string(status))
	}

	now := uc.now().UTC()
	account, err := uc.accountRepo.SetStatus(ctx, id, status, domain.PaymentDateFor(status, now), now)
	if err != nil {
		return nil, err
	}

	uc.recorder.StatusChanged(status)
	uc.logger.Info().Int64("account_id", id).Str("status", string(status)).Msg("account status changed")

	return account, nil
}

// SearchPayable lists accounts that are not paid yet.
func (uc *AccountUseCase) SearchPayable(ctx context.Context, page domain.PageRequest, filter domain.SearchFilter) (*domain.Page, error) {
	page, err := domain.NormalizePageRequest(page)
	if err != nil {
		return nil, err
	}

	if filter.DueDate != nil {
		d := domain.Date(*filter.DueDate)
		filter.DueDate = &d
	}

	return uc.accountRepo.SearchUnpaid(ctx, filter, page)
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// TotalPaidInPeriod sums the amounts paid between start and end, inclusive.
func (uc *AccountUseCase) TotalPaidInPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if err := domain.ValidatePeriod(start, end); err != nil {
		return decimal.Zero, err
	}

	return uc.accountRepo.SumPaidBetween(ctx, domain.Date(start), domain.Date(end))
}

// ImportResult describes a completed import.
type ImportResult struct {
	BatchID  string
	Accounts []*domain.Account
}

// ImportAccounts parses r and saves every row as a new pending account in a
// single transaction. Parse failures are reported as a bad request; storage
// failures propagate unchanged.
func (uc *AccountUseCase) ImportAccounts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	records, err := importer.Parse(r)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("csv import rejected")
		return nil, domain.NewImportError(err)
	}

	batchID := uc.idGen.Generate()
	now := uc.now().UTC()

	accounts := make([]*domain.Account, len(records))
	for i, rec := range records {
		acc := rec.ToAccount()
		acc.ImportBatch = batchID
		acc.CreatedAt = now
		acc.UpdatedAt = now
		accounts[i] = acc
	}

	if len(accounts) == 0 {
		return &ImportResult{BatchID: batchID, Accounts: []*domain.Account{}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var saved []*domain.Account
	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		saved, err = uc.accountRepo.BulkCreate(ctx, tx, accounts)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.AccountsImported(len(saved))
	uc.logger.Info().Str("batch_id", batchID).Int("count", len(saved)).Msg("accounts imported")

	return &ImportResult{BatchID: batchID, Accounts: saved}, nil
}
