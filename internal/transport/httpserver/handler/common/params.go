package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func ParseID(value string) (uint, error) {
	value = strings.TrimSpace(value)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(parsed), nil
}

// URLParamID parses a numeric route parameter and writes 404 when it is not a valid id.
func URLParamID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := ParseID(chi.URLParam(r, name))
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "not found")
		return 0, false
	}
	return id, true
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

// PageParam reads ?page=, defaulting to 1.
func PageParam(r *http.Request) (int, error) {
	page, err := ParseIntParam(r.URL.Query().Get("page"), 1)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}
