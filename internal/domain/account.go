package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a payable account.
type Status string

const (
	// StatusPending marks an account that has not been paid yet.
	StatusPending Status = "PENDENTE"
	// StatusPaid marks an account that has been paid.
	StatusPaid Status = "PAGO"
)

// ParseStatus accepts the wire values (PENDENTE, PAGO) and their English
// equivalents, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDENTE", "PENDING":
		return StatusPending, nil
	case "PAGO", "PAID":
		return StatusPaid, nil
	default:
		return "", NewValidationError("invalid status: " + s)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusPaid
}

// Account is a payable obligation ("conta a pagar").
type Account struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	PaymentDate *time.Time
	Status      Status
	ImportBatch string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPendingAccount builds an unsaved account in the PENDENTE state.
func NewPendingAccount(description string, amount decimal.Decimal, dueDate time.Time) *Account {
	return &Account{
		Description: description,
		Amount:      amount,
		DueDate:     Date(dueDate),
		Status:      StatusPending,
	}
}

// Equal compares accounts by identity only.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.ID == other.ID
}

// IsPaid reports whether the account is in the PAGO state.
func (a *Account) IsPaid() bool {
	return a.Status == StatusPaid
}

// PaymentDateFor returns the payment date that must accompany a transition
// to status at the given instant: today for PAGO, nil otherwise.
func PaymentDateFor(status Status, now time.Time) *time.Time {
	if status != StatusPaid {
		return nil
	}
	d := Date(now)
	return &d
}

// UpdateFields holds the mutable, non-status fields of an account.
type UpdateFields struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// ImportRecord is one data row decoded from an import file.
type ImportRecord struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// ToAccount converts the record into a new pending account.
func (r ImportRecord) ToAccount() *Account {
	return NewPendingAccount(r.Description, r.Amount, r.DueDate)
}

// DateLayout is the calendar date format used on the wire and in CSV files.
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a yyyy-MM-dd date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
