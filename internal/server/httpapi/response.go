// Package httpapi implements the HTTP surface of the marketplace server:
// the JSON API gated by bearer tokens, the web pages gated by the token
// cookie, and the two middlewares doing the gating.
package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// Envelope is the uniform response body. Data is null for failures.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func respondSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{Status: statusSuccess, Message: message, Data: data})
}

// respondFail writes a rejection the client caused (bad token, bad input).
func respondFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: statusFail, Message: message})
}

// respondError writes a server-side failure.
func respondError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: statusError, Message: message})
}
