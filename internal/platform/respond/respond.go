// Package respond writes JSON responses for the HTTP handlers.
package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a user-facing message. detail is echoed only for client
// errors; server-side causes stay in the logs.
func Error(w http.ResponseWriter, status int, msg string, detail error) {
	body := ErrorBody{Error: msg}
	if detail != nil && status < http.StatusInternalServerError {
		body.Detail = detail.Error()
	}
	JSON(w, status, body)
}
