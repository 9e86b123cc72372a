package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

var maxInterestRate = decimal.NewFromInt(100)

type ApplyLoanRequest struct {
	AccountID    int64           `json:"accountId"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`
}

func (r ApplyLoanRequest) Validate() error {
	if r.AccountID <= 0 {
		return fmt.Errorf("accountId is required: %w", domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("loan amount must be positive: %w", domain.ErrValidation)
	}
	if r.InterestRate.IsNegative() || r.InterestRate.GreaterThan(maxInterestRate) {
		return fmt.Errorf("interest rate must be between 0 and 100: %w", domain.ErrValidation)
	}
	if r.TermMonths <= 0 {
		return fmt.Errorf("loan term must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type LoanPaymentRequest struct {
	LoanID int64           `json:"loanId"`
	Amount decimal.Decimal `json:"amount"`
}

func (r LoanPaymentRequest) Validate() error {
	if r.LoanID <= 0 {
		return fmt.Errorf("loanId is required: %w", domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("payment amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type LoanResponse struct {
	ID            int64           `json:"id"`
	AccountID     int64           `json:"accountId"`
	Principal     decimal.Decimal `json:"principal"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	TermMonths    int             `json:"termMonths"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	AppliedAt     string          `json:"appliedAt"`
	StartedAt     *string         `json:"startedAt,omitempty"`
	EndedAt       *string         `json:"endedAt,omitempty"`
	LastPaymentAt *string         `json:"lastPaymentAt,omitempty"`
}

type ScheduleEntryResponse struct {
	Month            int             `json:"month"`
	PaymentAmount    decimal.Decimal `json:"paymentAmount"`
	PrincipalPayment decimal.Decimal `json:"principalPayment"`
	InterestPayment  decimal.Decimal `json:"interestPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

type LoanSummaryResponse struct {
	Loan            LoanResponse            `json:"loan"`
	Account         AccountResponse         `json:"account"`
	MonthlyPayment  decimal.Decimal         `json:"monthlyPayment"`
	TotalPayments   decimal.Decimal         `json:"totalPayments"`
	TotalInterest   decimal.Decimal         `json:"totalInterest"`
	PaymentsMade    []TransactionResponse   `json:"paymentsMade"`
	PaymentSchedule []ScheduleEntryResponse `json:"paymentSchedule"`
}
