package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil passes through", nil, "", 0},
		{"domain error preserved", NewConflict("already assigned", nil), "CONFLICT", http.StatusConflict},
		{"wrapped domain error unwrapped", fmt.Errorf("handler: %w", NewValidationError("bad input", nil)), "VALIDATION_FAILED", http.StatusBadRequest},
		{"no rows maps to not found", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped no rows maps to not found", fmt.Errorf("query: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unknown error maps to internal", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("ToDomainError(nil) = %v, want nil", got)
				}
				return
			}
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	if !errors.Is(err, cause) {
		t.Error("internal error does not unwrap to its cause")
	}
}

func TestNewNotFoundMessage(t *testing.T) {
	err := NewNotFound("complaint", nil)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatal("NewNotFound did not return a DomainError")
	}
	if domainErr.Message != "complaint not found" {
		t.Errorf("message = %q", domainErr.Message)
	}
}
