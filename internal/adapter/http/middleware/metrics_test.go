package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/rocksti/pagafacil/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		route      string
		statusCode string
	}{
		{
			name:       "labels by route pattern",
			method:     http.MethodGet,
			path:       "/contas/buscar/42",
			route:      "/contas/buscar/{id}",
			statusCode: "418",
		},
		{
			name:       "unmatched path",
			method:     http.MethodGet,
			path:       "/nope",
			route:      unmatchedRoute,
			statusCode: "404",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.Get("/contas/buscar/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPInFlight))
			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.route, tc.statusCode)
			assert.Equal(t, float64(1), testutil.ToFloat64(counter))
			assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
		})
	}
}

func TestRoutePatternWithoutChiContext(t *testing.T) {
	assert.Equal(t, unmatchedRoute, routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}
