package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
)

type AccountService interface {
	CreateAccount(ctx context.Context, request models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	SearchAccounts(ctx context.Context, filter domain.AccountFilter) (commons.Response[[]models.AccountResponse], error)
	UpdateAccount(ctx context.Context, id int64, request models.UpdateAccountRequest) (commons.Response[models.AccountResponse], error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (commons.Response[models.AccountResponse], error)
	CloseAccount(ctx context.Context, id int64) (commons.Response[models.CloseAccountResponse], error)
	AccountSummary(ctx context.Context, id int64) (commons.Response[models.AccountSummaryResponse], error)
}
