package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusRejected  LoanStatus = "rejected"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

func ValidLoanStatuses() []LoanStatus {
	return []LoanStatus{
		LoanStatusPending,
		LoanStatusActive,
		LoanStatusRejected,
		LoanStatusPaid,
		LoanStatusDefaulted,
	}
}

func (s LoanStatus) Valid() bool {
	for _, valid := range ValidLoanStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// CanTransitionTo encodes the one-directional loan lifecycle:
// pending goes to active or rejected, active goes to paid or defaulted,
// and rejected/paid/defaulted are terminal.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanStatusPending:
		return next == LoanStatusActive || next == LoanStatusRejected
	case LoanStatusActive:
		return next == LoanStatusPaid || next == LoanStatusDefaulted
	default:
		return false
	}
}

type Loan struct {
	ID            int64
	AccountID     int64
	Principal     decimal.Decimal
	InterestRate  decimal.Decimal
	TermMonths    int
	Remaining     decimal.Decimal
	Status        LoanStatus
	AppliedAt     time.Time
	StartedAt     *time.Time
	EndedAt       *time.Time
	LastPaymentAt *time.Time
}
