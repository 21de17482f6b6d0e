package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePageRequest applies defaults and bounds to p.
func NormalizePageRequest(p PageRequest) (PageRequest, error) {
	if p.Page < 0 {
		p.Page = 0
	}

	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}

	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	if p.Sort == "" {
		p.Sort = SortByID
	}

	if !p.Sort.IsValid() {
		return p, NewValidationError(fmt.Sprintf("invalid sort property: %s", p.Sort))
	}

	return p, nil
}

// ValidateAmount rejects negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError("amount must not be negative")
	}
	return nil
}

// ValidatePeriod rejects periods whose start is after their end.
func ValidatePeriod(start, end time.Time) error {
	if Date(start).After(Date(end)) {
		return NewValidationError("start date must not be after end date")
	}
	return nil
}
