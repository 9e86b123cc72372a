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

func newMockLoans(t *testing.T) (*LoanRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewLoanRepository(db), mock
}

func TestLoanRepositoryCreate(t *testing.T) {
	repo, mock := newMockLoans(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO loans`)).
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg(), 12, sqlmock.AnyArg(), domain.LoanStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "applied_at"}).AddRow(int64(5), now))

	created, err := repo.Create(context.Background(), domain.Loan{
		AccountID:    7,
		Principal:    decimal.NewFromInt(1000),
		InterestRate: decimal.RequireFromString("5.5"),
		TermMonths:   12,
		Remaining:    decimal.NewFromInt(1000),
		Status:       domain.LoanStatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, now, created.AppliedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryListFiltersStatus(t *testing.T) {
	repo, mock := newMockLoans(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"loan_id", "account_id", "principal", "interest_rate", "term_months",
		"remaining_amount", "status", "applied_at", "started_at", "ended_at", "last_payment_at",
	}).AddRow(int64(5), int64(7), "1000.00", "5.5", 12, "800.00", "active", now, now, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = $1`)).
		WithArgs(domain.LoanStatusActive).
		WillReturnRows(rows)

	loans, err := repo.List(context.Background(), domain.LoanStatusActive)

	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, domain.LoanStatusActive, loans[0].Status)
	require.NotNil(t, loans[0].LastPaymentAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockLoans(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE loans`)).
		WithArgs(int64(404), domain.LoanStatusRejected).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id"}))

	_, err := repo.UpdateStatus(context.Background(), 404, domain.LoanStatusRejected)

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
