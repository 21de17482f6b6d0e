package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
	"github.com/rocksti/pagafacil/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeProblem translates err into a problem response. Internal errors are
// logged and their detail is never sent to the caller.
func writeProblem(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	kind := domain.KindOf(err)

	var (
		status int
		detail string
	)
	switch kind {
	case domain.KindNotFound:
		status, detail = http.StatusNotFound, err.Error()
	case domain.KindBadRequest:
		status, detail = http.StatusBadRequest, badRequestDetail(err)
	case domain.KindValidation:
		status, detail = http.StatusBadRequest, err.Error()
	default:
		status = http.StatusInternalServerError
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(http.StatusText(status))
	}

	if kind == domain.KindBadRequest {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("bad request")
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.NewProblem(r, status, detail, kind.String()+"Error", time.Now()))
}

// badRequestDetail keeps the cause out of the response; it is only logged.
func badRequestDetail(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// parseID reads the {id} path parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationErrors([]string{"id must be a positive integer"})
	}
	return id, nil
}

// queryValue returns the first non-empty value among keys.
func queryValue(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// rawQueryValue is queryValue without trimming; used for free-text filters
// that must match stored values exactly.
func rawQueryValue(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, key := range keys {
		if v := q.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := queryValue(r, key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, domain.NewValidationErrors([]string{key + " must be an integer"})
	}
	return i, nil
}

// parseDateQuery reads an optional yyyy-MM-dd date from the first present key.
func parseDateQuery(r *http.Request, keys ...string) (*time.Time, error) {
	val := queryValue(r, keys...)
	if val == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(val)
	if err != nil {
		return nil, domain.NewValidationErrors([]string{keys[0] + " must be a date in yyyy-MM-dd format"})
	}
	return &t, nil
}

// requireDateQuery is parseDateQuery for mandatory parameters.
func requireDateQuery(r *http.Request, keys ...string) (time.Time, error) {
	t, err := parseDateQuery(r, keys...)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, domain.NewValidationErrors([]string{keys[0] + " is required"})
	}
	return *t, nil
}

// parseSort reads "field" or "field,asc|desc".
func parseSort(raw string) (domain.SortField, bool, error) {
	if raw == "" {
		return domain.SortByID, false, nil
	}

	field, dir, _ := strings.Cut(raw, ",")
	sort := domain.SortField(strings.TrimSpace(field))
	if !sort.IsValid() {
		return "", false, domain.NewValidationErrors([]string{"sort field " + field + " is not supported"})
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return sort, false, nil
	case "desc":
		return sort, true, nil
	default:
		return "", false, domain.NewValidationErrors([]string{"sort direction must be asc or desc"})
	}
}
