package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"menage/internal/core"
	"menage/internal/log"
)

// errInvalidBody covers malformed or undecodable request bodies.
var errInvalidBody = errors.New("invalid request body")

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain sentinels to statuses and writes the uniform
// {"error": msg} body. Unknown errors are logged and reported as a generic
// internal error so internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			"error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnauthenticated),
		errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errInvalidBody),
		errors.Is(err, core.ErrMissingUserHeader),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrMissingAmount),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrMissingDescription),
		errors.Is(err, core.ErrMissingName),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrInvalidPriority),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON strictly decodes the request body into v. Decode failures all
// surface as errInvalidBody; the specific JSON error is not useful to
// clients.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
