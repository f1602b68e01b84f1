package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	"github.com/iho/ledgerstat/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/top/categories?k=3", nil)
	if got, err := parseIntQuery(req, "k", 5); err != nil || got != 3 {
		t.Fatalf("expected k=3, got %d (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/top/categories?k=three", nil)
	if _, err := parseIntQuery(req, "k", 5); !errors.Is(err, errBadParameter) {
		t.Fatalf("expected errBadParameter, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/top/categories", nil)
	if got, err := parseIntQuery(req, "k", 5); err != nil || got != 5 {
		t.Fatalf("expected default when missing, got %d (%v)", got, err)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		query   string
		want    *domain.CategoryKey
		wantErr bool
	}{
		{query: ""},
		{query: "?category_id=none", want: &domain.Uncategorized},
		{query: "?category_id=3", want: &domain.CategoryKey{ID: 3, Valid: true}},
		{query: "?category_id=food", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := parseCategory(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Fatalf("parseCategory = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"wrapped account not found", fmt.Errorf("filter: %w", domain.ErrAccountNotFound), http.StatusNotFound},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"invalid month", domain.ErrInvalidYearMonth, http.StatusBadRequest},
		{"invalid top-k", domain.ErrInvalidTopK, http.StatusBadRequest},
		{"window too long", domain.ErrTimephaseTooLong, http.StatusBadRequest},
		{"bad parameter", errBadParameter, http.StatusBadRequest},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeDomainError(rr, req, errors.New("connection refused to 10.0.0.5"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Message != "" {
		t.Fatalf("expected details withheld, got %q", resp.Message)
	}
}
