package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Amount      json.Number   `json:"amount"`
	DueDate     Date          `json:"dueDate"`
	PaymentDate *Date         `json:"paymentDate"`
	Status      domain.Status `json:"status"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:          a.ID,
		Description: a.Description,
		Amount:      Money(a.Amount),
		DueDate:     NewDate(a.DueDate),
		Status:      a.Status,
	}
	if a.PaymentDate != nil {
		paid := NewDate(*a.PaymentDate)
		resp.PaymentDate = &paid
	}
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// Money renders an amount as a JSON number with two decimal places.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// PageResponse is one page of search results.
type PageResponse struct {
	Content       []*AccountResponse `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
}

func PageFromDomain(p *domain.Page) *PageResponse {
	return &PageResponse{
		Content:       AccountsFromDomain(p.Content),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
	}
}

// TotalPaid wraps the sum under the single "totalPaid" key.
func TotalPaid(total decimal.Decimal) map[string]json.Number {
	return map[string]json.Number{"totalPaid": Money(total)}
}

// ImportResponse reports a committed CSV import.
type ImportResponse struct {
	BatchID  string `json:"batchId"`
	Imported int    `json:"imported"`
}

func ImportFromResult(r *usecase.ImportResult) *ImportResponse {
	return &ImportResponse{
		BatchID:  r.BatchID,
		Imported: len(r.Accounts),
	}
}
