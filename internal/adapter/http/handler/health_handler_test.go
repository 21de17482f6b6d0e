package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okPinger() Pinger {
	return PingerFunc(func(ctx context.Context) error { return nil })
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandlerWithChecks(nil)
	rr := httptest.NewRecorder()

	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := NewHealthHandlerWithChecks(map[string]Pinger{
		"postgres": okPinger(),
		"redis":    okPinger(),
	})
	rr := httptest.NewRecorder()

	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","postgres":"ok","redis":"ok"}`, rr.Body.String())
}

func TestHealthHandler_ReadinessFailure(t *testing.T) {
	h := NewHealthHandlerWithChecks(map[string]Pinger{
		"postgres": PingerFunc(func(ctx context.Context) error { return errors.New("dial tcp: refused") }),
		"redis":    okPinger(),
	})
	rr := httptest.NewRecorder()

	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "dial tcp: refused", body["postgres"])
	assert.Equal(t, "ok", body["redis"])
}
