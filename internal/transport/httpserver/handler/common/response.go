package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"social-app-go/internal/domain/validation"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// WriteValidation renders field errors with status 422.
func WriteValidation(w http.ResponseWriter, errs validation.Errors) {
	WriteJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
		Code:    "validation_failed",
		Message: "the given data was invalid",
		Fields:  errs,
	}})
}

func WriteInternal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func WriteUnauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// DecodeAndValidate decodes a JSON body into dst and runs its validate tags.
// It writes the error response itself and reports whether the handler may continue.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := DecodeJSON(r, dst); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return false
	}
	return ValidateRequest(w, dst)
}

// ValidateRequest runs the validate tags of dst and writes 422 on failure.
func ValidateRequest(w http.ResponseWriter, dst interface{}) bool {
	if err := Validate(dst); err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			WriteValidation(w, errs)
			return false
		}
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

// AsValidation unwraps field errors returned by a domain service.
func AsValidation(err error) (validation.Errors, bool) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
