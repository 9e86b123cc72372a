package commons

import (
	"errors"
	"fmt"
	"testing"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

func TestErrorKindMapsDomainSentinels(t *testing.T) {
	cases := map[string]error{
		"VALIDATION_ERROR":    fmt.Errorf("amount must be positive: %w", domain.ErrValidation),
		"NOT_FOUND":           fmt.Errorf("account 7: %w", domain.ErrNotFound),
		"INVALID_STATE":       domain.ErrInvalidState,
		"INSUFFICIENT_FUNDS":  domain.ErrInsufficientFunds,
		"PRECONDITION_FAILED": domain.ErrPreconditionFailed,
		"DUPLICATE":           domain.ErrDuplicate,
		"STORE_ERROR":         fmt.Errorf("lock row: %w: %w", domain.ErrStore, errors.New("timeout")),
		"INTERNAL_ERROR":      errors.New("unmapped"),
	}

	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Errorf("ErrorKind(%v): got %s, want %s", err, got, want)
		}
	}
}

func TestErrorResponseCarriesCode(t *testing.T) {
	resp := ErrorResponse[string](domain.ErrNotFound, "failed to fetch account", "account 7: record not found")

	if resp.Success {
		t.Error("error response must not be successful")
	}
	if resp.Code != "NOT_FOUND" {
		t.Errorf("got code %s", resp.Code)
	}
	if resp.Data != nil {
		t.Error("error response carries no data")
	}
}

func TestSuccessResponse(t *testing.T) {
	resp := SuccessResponse("done", 42)

	if !resp.Success || resp.Data == nil || *resp.Data != 42 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
