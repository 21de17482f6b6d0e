package dto

import (
	"net/http"
	"strconv"
	"time"
)

const problemTimestampLayout = "2006-01-02T15:04:05.000"

// ProblemResponse is the body of every failed request.
type ProblemResponse struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
	Code      int    `json:"code"`
	Exception string `json:"exception"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// NewProblem builds a problem for r. An empty detail is omitted from the body.
func NewProblem(r *http.Request, code int, detail, exception string, now time.Time) *ProblemResponse {
	return &ProblemResponse{
		Title:     http.StatusText(code),
		Status:    strconv.Itoa(code) + " " + http.StatusText(code),
		Detail:    detail,
		Timestamp: now.Format(problemTimestampLayout),
		Code:      code,
		Exception: exception,
		Path:      r.URL.Path,
		Method:    r.Method,
	}
}
