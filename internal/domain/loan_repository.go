package domain

import "context"

type LoanRepository interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id int64) (Loan, error)
	ListForAccount(ctx context.Context, accountID int64) ([]Loan, error)
	// List returns every loan, newest application first; a non-empty status
	// narrows the result.
	List(ctx context.Context, status LoanStatus) ([]Loan, error)
	UpdateStatus(ctx context.Context, id int64, status LoanStatus) (Loan, error)
}
