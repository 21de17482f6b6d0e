package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
	"github.com/rocksti/pagafacil/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contas?size=50", nil)
	got, err := parseIntQuery(req, "size", 10)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	req = httptest.NewRequest(http.MethodGet, "/contas", nil)
	got, err = parseIntQuery(req, "size", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, got)

	req = httptest.NewRequest(http.MethodGet, "/contas?size=abc", nil)
	_, err = parseIntQuery(req, "size", 10)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(raw)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "parseID(%q)", raw)
	}
}

func TestQueryValue_Aliases(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contas?dueDate=2024-09-25", nil)
	assert.Equal(t, "2024-09-25", queryValue(req, "dataVencimento", "dueDate"))

	req = httptest.NewRequest(http.MethodGet, "/contas?dataVencimento=2024-09-24&dueDate=2024-09-25", nil)
	assert.Equal(t, "2024-09-24", queryValue(req, "dataVencimento", "dueDate"), "first key wins")
}

func TestRawQueryValue_KeepsWhitespace(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contas?descricao=%20%20Gas%20bill%20%20", nil)
	assert.Equal(t, "  Gas bill  ", rawQueryValue(req, "descricao", "description"))
	assert.Equal(t, "Gas bill", queryValue(req, "descricao", "description"))
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw      string
		wantSort domain.SortField
		wantDesc bool
		wantErr  bool
	}{
		{raw: "", wantSort: domain.SortByID},
		{raw: "dueDate", wantSort: domain.SortByDueDate},
		{raw: "amount,desc", wantSort: domain.SortByAmount, wantDesc: true},
		{raw: "description,ASC", wantSort: domain.SortByDescription},
		{raw: "password,asc", wantErr: true},
		{raw: "amount,sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sort, desc, err := parseSort(tt.raw)
			if tt.wantErr {
				assert.Equal(t, domain.KindValidation, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSort, sort)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestWriteProblem(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantDetail    string
		wantException string
	}{
		{
			name:          "not found",
			err:           domain.ErrAccountNotFound,
			wantStatus:    http.StatusNotFound,
			wantDetail:    "Conta não encontrada",
			wantException: "NotFoundError",
		},
		{
			name:          "bad request hides cause",
			err:           domain.NewImportError(errors.New("row 2: bad amount")),
			wantStatus:    http.StatusBadRequest,
			wantDetail:    "Erro ao importar CSV",
			wantException: "BadRequestError",
		},
		{
			name:          "validation",
			err:           domain.NewValidationErrors([]string{"amount is required", "dueDate is required"}),
			wantStatus:    http.StatusBadRequest,
			wantDetail:    "[ amount is required ; dueDate is required ]",
			wantException: "ValidationError",
		},
		{
			name:          "internal has no detail",
			err:           errors.New("connection refused"),
			wantStatus:    http.StatusInternalServerError,
			wantException: "InternalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/contas/buscar/1", nil)

			writeProblem(rr, req, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

			var problem dto.ProblemResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantStatus, problem.Code)
			assert.Equal(t, http.StatusText(tt.wantStatus), problem.Title)
			assert.Equal(t, tt.wantDetail, problem.Detail)
			assert.Equal(t, tt.wantException, problem.Exception)
			assert.Equal(t, "/contas/buscar/1", problem.Path)
			assert.Equal(t, http.MethodGet, problem.Method)
			assert.NotEmpty(t, problem.Timestamp)
			assert.NotContains(t, rr.Body.String(), "connection refused")
		})
	}
}
