package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and a structured body. Internal
// errors never expose their cause.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(domain.KindInput),
			Message: "request validation failed",
			Details: verr.Fields,
		})
		return
	}

	kind := domain.KindOf(err)
	status := mapDomainError(err)
	if kind == domain.KindInternal {
		writeJSON(w, status, dto.ErrorResponse{Error: string(kind), Message: domain.ErrInternal.Error()})
		return
	}

	writeJSON(w, status, dto.ErrorResponse{
		Error:   string(kind),
		Message: err.Error(),
		Details: errorDetails(err),
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInput:
		return http.StatusBadRequest
	case domain.KindPolicy, domain.KindBalance:
		return http.StatusUnprocessableEntity
	case domain.KindState, domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPermission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func errorDetails(err error) any {
	var (
		pv *domain.PolicyViolationError
		be *domain.BalanceError
		le *domain.LineError
	)
	switch {
	case errors.As(err, &pv):
		out := make([]map[string]string, len(pv.Violations))
		for i, v := range pv.Violations {
			out[i] = map[string]string{
				"account_id":   v.AccountID,
				"account_code": v.AccountCode,
				"rule":         v.Rule,
				"reason":       v.Reason,
			}
		}
		return map[string]any{"violations": out}
	case errors.As(err, &be):
		return map[string]string{
			"debit":      be.Debit.StringFixed(domain.MoneyPrecision),
			"credit":     be.Credit.StringFixed(domain.MoneyPrecision),
			"difference": be.Difference().StringFixed(domain.MoneyPrecision),
		}
	case errors.As(err, &le):
		return map[string]any{"line": le.Index, "field": le.Field}
	}
	return nil
}

// decodeBody decodes and validates a JSON request body. An empty body
// leaves dst untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		return &dto.ValidationError{Fields: []dto.FieldError{{Field: "body", Message: "is not valid JSON: " + err.Error()}}}
	}
	return dto.Validate(dst)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	t, err := dto.ParseDate(r.URL.Query().Get(key))
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// parseListQuery splits a comma separated query parameter, dropping blanks.
func parseListQuery(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// actingUserID returns the authenticated user, or "" when auth is disabled.
func actingUserID(r *http.Request) string {
	if user, ok := domain.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}

func companyID(r *http.Request) string {
	return chi.URLParam(r, "companyID")
}
