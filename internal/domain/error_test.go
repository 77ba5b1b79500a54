package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", Invalid("order.create", "bad input"), EINVALID},
		{"wrapped domain error", fmt.Errorf("context: %w", NotFound("order.get", "order", "123")), ENOTFOUND},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "db.query", "sensitive detail")
	if msg := ErrorMessage(err); msg != "An internal error occurred. Please try again later." {
		t.Errorf("ErrorMessage() = %q, internal details leaked", msg)
	}

	err = Invalid("order.create", "quantity must be positive")
	if msg := ErrorMessage(err); msg != "quantity must be positive" {
		t.Errorf("ErrorMessage() = %q", msg)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Transient(errors.New("i/o timeout"), "store.get", "connection failure")) {
		t.Error("transient errors must be retryable")
	}
	if Retryable(Invalid("order.create", "bad input")) {
		t.Error("validation errors must not be retryable")
	}
	if Retryable(errors.New("boom")) {
		t.Error("plain errors must not be retryable")
	}
}

func TestInsufficientStock(t *testing.T) {
	err := InsufficientStock("Coffee", "")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("errors.Is must match the sentinel")
	}
	if got := err.Error(); got != "Insufficient stock for Coffee: Insufficient stock" {
		t.Errorf("Error() = %q", got)
	}

	err = InsufficientStock("Shirt", "Large")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("errors.Is must match the sentinel for variant shortages")
	}
	if msg := ErrorMessage(err); msg != "Insufficient stock for Shirt (Large)" {
		t.Errorf("ErrorMessage() = %q", msg)
	}
	if ErrorCode(err) != ECONFLICT {
		t.Errorf("ErrorCode() = %q, want %q", ErrorCode(err), ECONFLICT)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrStoreNotFound,
		ErrProductNotFound,
		ErrVariantNotFound,
		ErrCatalogMismatch,
		ErrOrderNotFound,
		ErrAccessDenied,
		ErrInsufficientStock,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d matches sentinel %d", i, j)
			}
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "SHIPPED", "pending"} {
		if s.Valid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}
