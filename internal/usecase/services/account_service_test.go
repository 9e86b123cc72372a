package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
)

func TestCreateAccountGeneratesBranchPrefixedNumber(t *testing.T) {
	env := newTestEnv()

	account := createTestAccount(t, env, decimal.NewFromInt(100))

	assert.Len(t, account.AccountNumber, 10)
	assert.True(t, strings.HasPrefix(account.AccountNumber, "52"))
	assert.Equal(t, "checking", account.AccountType)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)))
}

func TestCreateAccountNumbersAreUnique(t *testing.T) {
	env := newTestEnv()

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		account := createTestAccount(t, env, decimal.Zero)
		_, dup := seen[account.AccountNumber]
		require.False(t, dup, "account number %s issued twice", account.AccountNumber)
		seen[account.AccountNumber] = struct{}{}
	}
}

func TestCreateAccountRejectsUnknownType(t *testing.T) {
	env := newTestEnv()

	resp, err := env.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerName:   "Ada Lovelace",
		AccountType: "offshore",
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestCreateAccountRejectsNegativeInitialBalance(t *testing.T) {
	env := newTestEnv()
	negative := decimal.NewFromInt(-5)

	_, err := env.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerName:      "Ada Lovelace",
		AccountType:    "savings",
		InitialBalance: &negative,
	})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetAccountNotFound(t *testing.T) {
	env := newTestEnv()

	resp, err := env.accounts.GetAccount(context.Background(), 999)

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestGetAccountByNumber(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.NewFromInt(42))

	resp, err := env.accounts.GetAccountByNumber(context.Background(), created.AccountNumber)

	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, created.ID, resp.Data.ID)
}

func TestUpdateAccountPartialFields(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.Zero)

	newName := "Grace Hopper"
	email := "grace@example.com"
	resp, err := env.accounts.UpdateAccount(context.Background(), created.ID, models.UpdateAccountRequest{
		OwnerName: &newName,
		Email:     &email,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Grace Hopper", resp.Data.OwnerName)
	require.NotNil(t, resp.Data.Email)
	assert.Equal(t, "grace@example.com", *resp.Data.Email)
	assert.Equal(t, created.AccountNumber, resp.Data.AccountNumber)
}

func TestUpdateAccountRequiresAField(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.Zero)

	_, err := env.accounts.UpdateAccount(context.Background(), created.ID, models.UpdateAccountRequest{})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateBalanceRejectsNegative(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.NewFromInt(10))

	_, err := env.accounts.UpdateBalance(context.Background(), created.ID, decimal.NewFromInt(-1))

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCloseAccountRefusesNonZeroBalance(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.NewFromInt(25))

	resp, err := env.accounts.CloseAccount(context.Background(), created.ID)

	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
	assert.Equal(t, "PRECONDITION_FAILED", resp.Code)

	// The account must survive a refused close.
	got, err := env.accounts.GetAccount(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.Data.Balance.Equal(decimal.NewFromInt(25)))
}

func TestCloseAccountRefusesOpenLoans(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.Zero)

	_, err := env.loans.ApplyForLoan(context.Background(), models.ApplyLoanRequest{
		AccountID:    created.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
		TermMonths:   12,
	})
	require.NoError(t, err)

	_, err = env.accounts.CloseAccount(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestCloseAccountCascadesJournal(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.Zero)

	_, err := env.ledger.Deposit(context.Background(), models.DepositRequest{
		AccountID: created.ID,
		Amount:    decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	_, err = env.ledger.Withdraw(context.Background(), models.WithdrawRequest{
		AccountID: created.ID,
		Amount:    decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	resp, err := env.accounts.CloseAccount(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, resp.Data.Closed)

	_, err = env.accounts.GetAccount(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	accountID := created.ID
	search, err := env.transactions.SearchTransactions(context.Background(), domain.TransactionFilter{
		AccountID: &accountID,
	})
	require.NoError(t, err)
	assert.Empty(t, *search.Data)
}

func TestSearchAccountsByOwnerAndBalance(t *testing.T) {
	env := newTestEnv()
	createTestAccount(t, env, decimal.NewFromInt(10))
	rich := createTestAccount(t, env, decimal.NewFromInt(5000))

	min := decimal.NewFromInt(1000)
	resp, err := env.accounts.SearchAccounts(context.Background(), domain.AccountFilter{
		OwnerNameContains: "lovelace",
		MinBalance:        &min,
	})

	require.NoError(t, err)
	require.Len(t, *resp.Data, 1)
	assert.Equal(t, rich.ID, (*resp.Data)[0].ID)
}

func TestSearchAccountsRejectsInvertedBalanceRange(t *testing.T) {
	env := newTestEnv()
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(10)

	_, err := env.accounts.SearchAccounts(context.Background(), domain.AccountFilter{
		MinBalance: &min,
		MaxBalance: &max,
	})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccountSummaryAggregates(t *testing.T) {
	env := newTestEnv()
	created := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	for _, amount := range []int64{100, 200} {
		_, err := env.ledger.Deposit(ctx, models.DepositRequest{AccountID: created.ID, Amount: decimal.NewFromInt(amount)})
		require.NoError(t, err)
	}
	_, err := env.ledger.Withdraw(ctx, models.WithdrawRequest{AccountID: created.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	resp, err := env.accounts.AccountSummary(ctx, created.ID)
	require.NoError(t, err)
	summary := *resp.Data

	assert.True(t, summary.Account.Balance.Equal(decimal.NewFromInt(250)))
	require.Len(t, summary.TransactionTotals, 2)
	assert.Len(t, summary.RecentTransactions, 3)

	byType := make(map[string]models.TransactionTypeTotalResponse)
	for _, total := range summary.TransactionTotals {
		byType[total.TransactionType] = total
	}
	assert.EqualValues(t, 2, byType["deposit"].Count)
	assert.True(t, byType["deposit"].Total.Equal(decimal.NewFromInt(300)))
	assert.EqualValues(t, 1, byType["withdrawal"].Count)
}
