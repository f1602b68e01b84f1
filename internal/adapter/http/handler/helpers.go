package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	"github.com/iho/ledgerstat/internal/adapter/http/middleware"
	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/logger"
	"github.com/iho/ledgerstat/internal/usecase"
)

var errBadParameter = errors.New("invalid query parameter")

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status. Server errors are logged and
// their details withheld.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, status, http.StatusText(status), "")
		return
	}
	writeError(w, status, http.StatusText(status), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrLedgerNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidYearMonth),
		errors.Is(err, domain.ErrInvalidPurpose),
		errors.Is(err, domain.ErrInvalidTopK),
		errors.Is(err, domain.ErrTimephaseTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, errBadParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadParameter, key, val)
	}
	return i, nil
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadParameter, key, val)
	}
	return b, nil
}

func parseAccountID(r *http.Request) (*int64, error) {
	val := r.URL.Query().Get("account_id")
	if val == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: account_id=%q", errBadParameter, val)
	}
	return &id, nil
}

// parseCategory reads category_id; "none" selects the uncategorized bucket.
func parseCategory(r *http.Request) (*domain.CategoryKey, error) {
	val := r.URL.Query().Get("category_id")
	switch strings.ToLower(val) {
	case "":
		return nil, nil
	case dto.UncategorizedKey:
		key := domain.Uncategorized
		return &key, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: category_id=%q", errBadParameter, val)
	}
	key := domain.CategoryKeyOf(&id)
	return &key, nil
}

func parseWindow(r *http.Request, now time.Time) (domain.Timephase, error) {
	months, err := parseIntQuery(r, "months", 0)
	if err != nil {
		return domain.Timephase{}, err
	}

	q := r.URL.Query()
	return dto.Window{From: q.Get("from"), To: q.Get("to"), Months: months}.Timephase(now)
}

// parseQuery reads the analytics query shared by every read endpoint.
func parseQuery(r *http.Request, now time.Time) (usecase.Query, error) {
	userID, err := scopedUser(r)
	if err != nil {
		return usecase.Query{}, err
	}

	tp, err := parseWindow(r, now)
	if err != nil {
		return usecase.Query{}, err
	}

	purpose, err := domain.ParsePurpose(r.URL.Query().Get("purpose"))
	if err != nil {
		return usecase.Query{}, err
	}

	k, err := parseIntQuery(r, "k", domain.DefaultTopK)
	if err != nil {
		return usecase.Query{}, err
	}

	normalize, err := parseBoolQuery(r, "normalize")
	if err != nil {
		return usecase.Query{}, err
	}

	accountID, err := parseAccountID(r)
	if err != nil {
		return usecase.Query{}, err
	}

	category, err := parseCategory(r)
	if err != nil {
		return usecase.Query{}, err
	}

	return usecase.Query{
		UserID:    userID,
		Timephase: tp,
		Filter:    analytics.Filter{AccountID: accountID, Category: category},
		Purpose:   purpose,
		K:         k,
		Normalize: normalize,
	}, nil
}

func scopedUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.ScopedUserFromContext(r.Context())
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}
