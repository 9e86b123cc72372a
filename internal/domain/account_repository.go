package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Search(ctx context.Context, filter AccountFilter) ([]Account, error)
	Update(ctx context.Context, id int64, update AccountUpdate) (Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (Account, error)
	Delete(ctx context.Context, id int64) error
	HasOpenLoans(ctx context.Context, id int64) (bool, error)
	Summary(ctx context.Context, id int64) (AccountSummary, error)
}
