package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
)

// writeProblem renders failures raised before a request reaches a handler.
func writeProblem(w http.ResponseWriter, r *http.Request, code int, detail, exception string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(dto.NewProblem(r, code, detail, exception, time.Now()))
}
