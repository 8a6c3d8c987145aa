// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
)

// errorEnvelope is the single error wire format. Data carries the cause text
// and is only populated outside production.
type errorEnvelope struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Data      string `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// listEnvelope wraps a page of results with its metadata.
type listEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError maps any error to the error envelope.
func writeAPIError(w http.ResponseWriter, err error, debug bool) {
	apiErr := apierr.From(err)

	env := errorEnvelope{
		Code:      apiErr.Code,
		Message:   apiErr.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if debug && apiErr.Err != nil {
		env.Data = apiErr.Err.Error()
	}

	writeJSON(w, apiErr.Status, env)
}

// parsePagination reads the common listing query parameters.
func parsePagination(r *http.Request) pagination.Params {
	q := r.URL.Query()

	params := pagination.Params{
		Keyword: q.Get("keyword"),
		Order:   q.Get("order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		params.PerPage = perPage
	}
	return params.Normalize()
}
