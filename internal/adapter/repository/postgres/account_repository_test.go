package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

func newMockDB(t *testing.T) (*AccountRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewAccountRepository(db), mock
}

func accountRows(id int64, number string, balance string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"account_id", "account_number", "owner_name", "account_type",
		"email", "phone_number", "balance", "created_at", "updated_at",
	}).AddRow(id, number, "Ada Lovelace", "checking", nil, nil, balance, at, at)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(accountRows(7, "5200000001", "150.25", now))

	account, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "5200000001", account.AccountNumber)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("150.25")))
	assert.Nil(t, account.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE account_id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}))

	_, err := repo.GetByID(context.Background(), 404)

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreate(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WithArgs("5200000002", "Ada Lovelace", domain.AccountTypeChecking, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	created, err := repo.Create(context.Background(), domain.Account{
		AccountNumber: "5200000002",
		OwnerName:     "Ada Lovelace",
		Type:          domain.AccountTypeChecking,
		Balance:       decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryUpdateBalance(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts`)).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnRows(accountRows(7, "5200000001", "75.00", now))

	account, err := repo.UpdateBalance(context.Background(), 7, decimal.RequireFromString("75.00"))

	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("75.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryDeleteNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM accounts WHERE account_id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositorySearchBuildsFilters(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()
	min := decimal.NewFromInt(100)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND owner_name ILIKE $1 AND account_type = $2 AND balance >= $3`)).
		WithArgs("%ada%", domain.AccountTypeSavings, sqlmock.AnyArg()).
		WillReturnRows(accountRows(1, "5200000003", "200.00", now))

	accounts, err := repo.Search(context.Background(), domain.AccountFilter{
		OwnerNameContains: "ada",
		Type:              domain.AccountTypeSavings,
		MinBalance:        &min,
	})

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryHasOpenLoans(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	open, err := repo.HasOpenLoans(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, open)
	require.NoError(t, mock.ExpectationsWereMet())
}
