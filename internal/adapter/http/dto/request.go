package dto

import (
	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/usecase"
)

// AccountRequest is the body of register and update calls.
type AccountRequest struct {
	Description string           `json:"description" validate:"max=255"`
	Amount      *decimal.Decimal `json:"amount"      validate:"required,gte=0"`
	DueDate     *Date            `json:"dueDate"     validate:"required"`
}

// ToUseCaseInput converts a validated request to use case input.
func (r *AccountRequest) ToUseCaseInput() usecase.AccountInput {
	input := usecase.AccountInput{Description: r.Description}
	if r.Amount != nil {
		input.Amount = *r.Amount
	}
	if r.DueDate != nil {
		input.DueDate = r.DueDate.Time
	}
	return input
}
