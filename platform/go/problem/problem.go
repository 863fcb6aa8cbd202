// Package problem writes application/problem+json error bodies and plain
// JSON success bodies for the domain handlers.
package problem

import (
	"encoding/json"
	"net/http"
)

// Problem type identifiers shared across domains.
const (
	TypeValidation     = "https://swami-pg.in/problems/validation-error"
	TypeNotFound       = "https://swami-pg.in/problems/not-found"
	TypeConflict       = "https://swami-pg.in/problems/conflict"
	TypeUnauthorized   = "https://swami-pg.in/problems/unauthorized"
	TypeSignupRequired = "https://swami-pg.in/problems/signup-required"
	TypeUnavailable    = "https://swami-pg.in/problems/store-unavailable"
	TypeInternal       = "https://swami-pg.in/problems/internal-error"
)

// Details is an RFC 7807 problem body.
type Details struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Detail string              `json:"detail,omitempty"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Write emits a problem+json response.
func Write(w http.ResponseWriter, p Details) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteJSON emits a plain JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
