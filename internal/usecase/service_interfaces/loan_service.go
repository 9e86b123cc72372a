package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/models"
)

type LoanService interface {
	ApplyForLoan(ctx context.Context, request models.ApplyLoanRequest) (commons.Response[models.LoanResponse], error)
	ApproveLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error)
	RejectLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error)
	MakePayment(ctx context.Context, request models.LoanPaymentRequest) (commons.Response[models.LoanResponse], error)
	MarkDefaulted(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error)
	GetLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error)
	ListAccountLoans(ctx context.Context, accountID int64) (commons.Response[[]models.LoanResponse], error)
	ListLoans(ctx context.Context, status string) (commons.Response[[]models.LoanResponse], error)
	MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error)
	LoanSummary(ctx context.Context, loanID int64) (commons.Response[models.LoanSummaryResponse], error)
}
