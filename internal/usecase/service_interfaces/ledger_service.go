package service_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
)

// LedgerService is the money movement engine. Deposit, Withdraw and Transfer
// face callers directly; DisburseLoan and CollectLoanPayment are invoked by
// the loan engine and return raw domain results for further composition.
type LedgerService interface {
	Deposit(ctx context.Context, request models.DepositRequest) (commons.Response[models.PostingResponse], error)
	Withdraw(ctx context.Context, request models.WithdrawRequest) (commons.Response[models.PostingResponse], error)
	Transfer(ctx context.Context, request models.TransferRequest) (commons.Response[models.TransferResponse], error)
	DisburseLoan(ctx context.Context, loanID int64, startedAt, endedAt time.Time) (domain.LoanPostingResult, error)
	CollectLoanPayment(ctx context.Context, loanID int64, amount decimal.Decimal) (domain.LoanPostingResult, error)
}
