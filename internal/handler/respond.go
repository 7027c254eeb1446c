package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/celosoul/celosoul/internal/domain"
)

// maxBodyBytes caps request bodies; every API payload here is tiny.
const maxBodyBytes = 16 * 1024

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst, rejecting unknown fields
// and trailing garbage.
func decodeJSON(r *http.Request, dst interface{}) error {
	const op = "handler.decode"

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return domain.Invalid(op, "request body is not valid JSON")
	}
	if dec.More() {
		return domain.Invalid(op, "request body contains trailing data")
	}
	return nil
}
