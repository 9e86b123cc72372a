package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/saeedahmed725/banking-system/internal/adapter/repository/memory"
	"github.com/saeedahmed725/banking-system/internal/models"
	"github.com/saeedahmed725/banking-system/internal/usecase/services"
)

type testEnv struct {
	store        *memory.Store
	accounts     *services.AccountService
	transactions *services.TransactionService
	ledger       *services.LedgerService
	loans        *services.LoanService
}

func newTestEnv() testEnv {
	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	loanRepo := memory.NewLoanRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)

	ledger := services.NewLedgerService(ledgerRepo)
	return testEnv{
		store:        store,
		accounts:     services.NewAccountService(accountRepo, ""),
		transactions: services.NewTransactionService(transactionRepo),
		ledger:       ledger,
		loans:        services.NewLoanService(loanRepo, accountRepo, transactionRepo, ledger),
	}
}

func createTestAccount(t *testing.T, env testEnv, balance decimal.Decimal) models.AccountResponse {
	t.Helper()

	resp, err := env.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerName:      "Ada Lovelace",
		AccountType:    "checking",
		InitialBalance: &balance,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)

	return *resp.Data
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}
