package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lovespace/internal/core"
	"lovespace/internal/imaging"
	applog "lovespace/internal/log"
	"lovespace/internal/services"
	"lovespace/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

// respondError maps domain errors to status codes. Validation and
// compression problems are the caller's fault; anything else reads as the
// backend being unavailable.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *imaging.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("photo is too large: best compression reached %d characters against a budget of %d; pick a smaller image", tooLarge.EncodedLen, tooLarge.Target),
		})
	case errors.Is(err, store.ErrTooLarge):
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "record is too large for the backend; reduce the content and retry"})
	case errors.Is(err, imaging.ErrNotAnImage):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "uploaded file is not a supported image"})
	case errors.Is(err, services.ErrNotOwner):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "only the author can delete this record"})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	case isValidationError(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Backend error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "backend unavailable, try again later"})
	}
}

var validationErrors = []error{
	core.ErrInvalidRole,
	core.ErrInvalidMood,
	core.ErrInvalidCategory,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyText,
	core.ErrEmptyDescription,
	core.ErrEmptyCaption,
	core.ErrEmptySecretCode,
	core.ErrEmptyPhoto,
}

func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// partitionFrom reads the couple code from the query string.
func partitionFrom(r *http.Request) (string, bool) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	return code, code != ""
}

func respondMissingCode(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing code parameter"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (int, time.Month) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}

	return year, month
}

// parseAnchorDate reads a YYYY-MM-DD "date" query parameter, defaulting to
// today.
func parseAnchorDate(r *http.Request) time.Time {
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if t, err := time.Parse(core.DateLayout, v); err == nil {
			return t
		}
	}
	return time.Now()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
