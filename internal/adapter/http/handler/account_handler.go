package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/usecase"
)

// DefaultMaxUploadBytes caps the size of an import request body.
const DefaultMaxUploadBytes int64 = 10 << 20

// Multipart field names accepted for the import file.
var importFileFields = []string{"arquivo", "file"}

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	RegisterAccount(ctx context.Context, input usecase.AccountInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, input usecase.AccountInput) (*domain.Account, error)
	ChangeStatus(ctx context.Context, id int64, status domain.Status) (*domain.Account, error)
	SearchPayable(ctx context.Context, page domain.PageRequest, filter domain.SearchFilter) (*domain.Page, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	TotalPaidInPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	ImportAccounts(ctx context.Context, r io.Reader) (*usecase.ImportResult, error)
}

// AccountHandler serves the /contas routes.
type AccountHandler struct {
	accountUC      AccountService
	validator      *dto.Validator
	logger         zerolog.Logger
	maxUploadBytes int64
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC:      accountUC,
		validator:      dto.NewValidator(),
		logger:         logger.With().Str("component", "account_handler").Logger(),
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// WithMaxUploadBytes overrides the import body limit.
func (h *AccountHandler) WithMaxUploadBytes(n int64) *AccountHandler {
	if n > 0 {
		h.maxUploadBytes = n
	}
	return h
}

// Register handles POST /contas/cadastrar.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeAccountRequest(r)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	account, err := h.accountUC.RegisterAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Update handles PUT /contas/atualizar/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	req, err := h.decodeAccountRequest(r)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ChangeStatus handles PATCH /contas/alterar-situacao/{id}?situacao=.
func (h *AccountHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	raw := queryValue(r, "situacao", "status")
	if raw == "" {
		writeProblem(w, r, h.logger, domain.NewValidationErrors([]string{"situacao is required"}))
		return
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	account, err := h.accountUC.ChangeStatus(r.Context(), id, status)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// SearchPayable handles GET /contas/buscar-contas-a-pagar.
func (h *AccountHandler) SearchPayable(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	dueDate, err := parseDateQuery(r, "dataVencimento", "dueDate")
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	result, err := h.accountUC.SearchPayable(r.Context(), page, domain.SearchFilter{
		DueDate:     dueDate,
		Description: rawQueryValue(r, "descricao", "description"),
	})
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFromDomain(result))
}

// Get handles GET /contas/buscar/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// TotalPaid handles GET /contas/valor-total-pago?dataInicio&dataFim.
func (h *AccountHandler) TotalPaid(w http.ResponseWriter, r *http.Request) {
	start, err := requireDateQuery(r, "dataInicio", "startDate")
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}
	end, err := requireDateQuery(r, "dataFim", "endDate")
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	total, err := h.accountUC.TotalPaidInPeriod(r.Context(), start, end)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalPaid(total))
}

// Import handles POST /contas/importar-csv with a multipart file.
func (h *AccountHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, err := h.openImportFile(r)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}
	defer file.Close()

	result, err := h.accountUC.ImportAccounts(r.Context(), file)
	if err != nil {
		writeProblem(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportFromResult(result))
}

func (h *AccountHandler) openImportFile(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.NewValidationErrors([]string{fmt.Sprintf("arquivo exceeds %d bytes", h.maxUploadBytes)})
		}
		return nil, domain.NewValidationErrors([]string{"request must be multipart/form-data with an arquivo field"})
	}

	for _, field := range importFileFields {
		file, _, err := r.FormFile(field)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, domain.NewImportError(err)
		}
	}
	return nil, domain.NewValidationErrors([]string{"arquivo is required"})
}

func (h *AccountHandler) decodeAccountRequest(r *http.Request) (*dto.AccountRequest, error) {
	var req dto.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, domain.NewValidationErrors([]string{"invalid request body: " + err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func parsePageRequest(r *http.Request) (domain.PageRequest, error) {
	page, err := parseIntQuery(r, "page", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	size, err := parseIntQuery(r, "size", domain.DefaultPageSize)
	if err != nil {
		return domain.PageRequest{}, err
	}
	sort, desc, err := parseSort(queryValue(r, "sort"))
	if err != nil {
		return domain.PageRequest{}, err
	}

	return domain.PageRequest{Page: page, Size: size, Sort: sort, Desc: desc}, nil
}
