package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PostingResult struct {
	Transaction Transaction
	NewBalance  decimal.Decimal
}

type TransferResult struct {
	OutTransaction Transaction
	InTransaction  Transaction
	FromBalance    decimal.Decimal
	ToBalance      decimal.Decimal
}

type LoanPostingResult struct {
	Loan        Loan
	Transaction Transaction
	NewBalance  decimal.Decimal
}

// LedgerRepository executes the money-moving operations. Every method runs
// as one store transaction: the involved account rows (and loan row, where
// applicable) are locked for the duration of the read-modify-write, the
// balance update and the journal inserts commit together, and any failure
// rolls the whole posting back.
type LedgerRepository interface {
	PostDeposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (PostingResult, error)
	PostWithdrawal(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (PostingResult, error)
	PostTransfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, description string) (TransferResult, error)
	PostLoanDisbursement(ctx context.Context, loanID int64, startedAt, endedAt time.Time, description string) (LoanPostingResult, error)
	PostLoanPayment(ctx context.Context, loanID int64, amount decimal.Decimal, description string) (LoanPostingResult, error)
}
