// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/models"
	"github.com/abmc/earned-media/internal/validation"
)

// API error codes returned in the error envelope.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeAuthentication = "AUTHENTICATION_ERROR"
	codeAuthorization  = "AUTHORIZATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeConflict       = "CONFLICT"
	codeDatabase       = "DATABASE_ERROR"
	codeInternal       = "INTERNAL_ERROR"
)

// maxBodyBytes bounds request bodies. The largest legitimate payloads
// are report creations with excerpts.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent
// log injection through attacker-supplied values.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a success envelope.
func respondJSON(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	response := &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}
	writeEnvelope(w, status, response)
}

// respondCached sends a success envelope for a cache hit.
func respondCached(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	response := &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      true,
		},
	}
	writeEnvelope(w, status, response)
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	writeEnvelope(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondValidationError sends a 400 with per-field details.
func respondValidationError(w http.ResponseWriter, apiErr *validation.APIError) {
	writeEnvelope(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondStoreError maps database sentinel errors to API responses.
// Cross-tenant lookups surface as 404 so resource existence never leaks
// across tenants.
func respondStoreError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, entity+" not found", nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, codeConflict, entity+" already exists", nil)
	default:
		respondError(w, http.StatusInternalServerError, codeDatabase, "storage failure", err)
	}
}

// decodeBody parses and validates a JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "failed to read request body", err)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body", nil)
		return false
	}
	if validationErr := validation.ValidateStruct(dst); validationErr != nil {
		respondValidationError(w, validationErr.ToAPIError())
		return false
	}
	return true
}

// uuidParam extracts and parses a UUID path parameter.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("invalid %s: must be a UUID", name), nil)
		return uuid.Nil, false
	}
	return id, true
}

// parseBodyUUID parses a UUID string from a request body field.
func parseBodyUUID(w http.ResponseWriter, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("invalid %s: must be a UUID", field), nil)
		return uuid.Nil, false
	}
	return id, true
}

// intQuery extracts an integer query parameter with a default.
func intQuery(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// timeQuery parses an optional RFC 3339 or date-only query parameter.
func timeQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be RFC 3339 or YYYY-MM-DD", key)
}

// timeRange parses the optional from/to pair shared by analytics and
// report filters.
func timeRange(w http.ResponseWriter, r *http.Request) (from, to *time.Time, ok bool) {
	from, err := timeQuery(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return nil, nil, false
	}
	to, err = timeQuery(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return nil, nil, false
	}
	if from != nil && to != nil && to.Before(*from) {
		respondError(w, http.StatusBadRequest, codeValidation, "to must not be before from", nil)
		return nil, nil, false
	}
	return from, to, true
}

// reportFilterFromQuery builds the report listing filter from query
// parameters. Filter values are validated against the closed
// vocabularies; unknown values are a 400, not an empty result.
func reportFilterFromQuery(w http.ResponseWriter, r *http.Request) (models.ReportFilter, bool) {
	q := r.URL.Query()
	filter := models.ReportFilter{
		Query:     strings.TrimSpace(q.Get("q")),
		Source:    q.Get("source"),
		Sentiment: q.Get("sentiment"),
		Brand:     strings.TrimSpace(q.Get("brand")),
		Status:    q.Get("status"),
		Page:      intQuery(r, "page", 1),
		PageSize:  intQuery(r, "page_size", 0),
	}

	if filter.Source != "" && !models.IsValidSource(filter.Source) {
		respondError(w, http.StatusBadRequest, codeValidation,
			"source must be one of: "+strings.Join(models.ValidSources, ", "), nil)
		return filter, false
	}
	if filter.Sentiment != "" && filter.Sentiment != "unrated" && !models.IsValidSentiment(filter.Sentiment) {
		respondError(w, http.StatusBadRequest, codeValidation,
			"sentiment must be positive, neutral, negative, or unrated", nil)
		return filter, false
	}
	if filter.Status != "" && !models.IsValidReportStatus(filter.Status) {
		respondError(w, http.StatusBadRequest, codeValidation,
			"status must be new, reviewed, or archived", nil)
		return filter, false
	}

	from, to, ok := timeRange(w, r)
	if !ok {
		return filter, false
	}
	filter.From, filter.To = from, to
	return filter, true
}
