package commons

import (
	"errors"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

// ErrorKind maps a domain error onto its stable, presentation-facing code.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return "PRECONDITION_FAILED"
	case errors.Is(err, domain.ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, domain.ErrStore):
		return "STORE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
