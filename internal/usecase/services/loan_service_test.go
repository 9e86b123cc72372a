package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
	"github.com/saeedahmed725/banking-system/internal/usecase/services"
)

func applyTestLoan(t *testing.T, env testEnv, accountID int64, amount string, rate string, term int) models.LoanResponse {
	t.Helper()

	resp, err := env.loans.ApplyForLoan(context.Background(), models.ApplyLoanRequest{
		AccountID:    accountID,
		Amount:       mustDecimal(t, amount),
		InterestRate: mustDecimal(t, rate),
		TermMonths:   term,
	})
	require.NoError(t, err)
	return *resp.Data
}

func TestApplyForLoanStartsPending(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)

	loan := applyTestLoan(t, env, account.ID, "5000", "5.5", 12)

	assert.Equal(t, "pending", loan.Status)
	assert.True(t, loan.Remaining.Equal(mustDecimal(t, "5000")))
	assert.Nil(t, loan.StartedAt)
	assert.Nil(t, loan.EndedAt)
}

func TestApplyForLoanValidation(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	cases := []struct {
		name    string
		request models.ApplyLoanRequest
	}{
		{"zero amount", models.ApplyLoanRequest{AccountID: account.ID, Amount: decimal.Zero, InterestRate: decimal.NewFromInt(5), TermMonths: 12}},
		{"negative rate", models.ApplyLoanRequest{AccountID: account.ID, Amount: decimal.NewFromInt(100), InterestRate: decimal.NewFromInt(-1), TermMonths: 12}},
		{"rate above 100", models.ApplyLoanRequest{AccountID: account.ID, Amount: decimal.NewFromInt(100), InterestRate: decimal.NewFromInt(101), TermMonths: 12}},
		{"zero term", models.ApplyLoanRequest{AccountID: account.ID, Amount: decimal.NewFromInt(100), InterestRate: decimal.NewFromInt(5), TermMonths: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.loans.ApplyForLoan(ctx, tc.request)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestApplyForLoanUnknownAccount(t *testing.T) {
	env := newTestEnv()

	_, err := env.loans.ApplyForLoan(context.Background(), models.ApplyLoanRequest{
		AccountID:    777,
		Amount:       decimal.NewFromInt(100),
		InterestRate: decimal.NewFromInt(5),
		TermMonths:   6,
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanLifecycleApplyApprovePayOff(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.NewFromInt(2000))
	ctx := context.Background()

	approvedAt := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
	env.loans.WithClock(func() time.Time { return approvedAt })

	loan := applyTestLoan(t, env, account.ID, "5000", "5.5", 12)

	approved, err := env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", approved.Data.Status)
	require.NotNil(t, approved.Data.StartedAt)
	require.NotNil(t, approved.Data.EndedAt)
	assert.Equal(t, approvedAt.Format(time.RFC3339), *approved.Data.StartedAt)
	assert.Equal(t, approvedAt.AddDate(1, 0, 0).Format(time.RFC3339), *approved.Data.EndedAt)

	// Disbursement credits the principal.
	got, err := env.accounts.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Data.Balance.Equal(decimal.NewFromInt(7000)))

	paid, err := env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, "active", paid.Data.Status)
	assert.True(t, paid.Data.Remaining.Equal(decimal.NewFromInt(4500)))
	require.NotNil(t, paid.Data.LastPaymentAt)

	final, err := env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(4500)})
	require.NoError(t, err)
	assert.Equal(t, "paid", final.Data.Status)
	assert.True(t, final.Data.Remaining.IsZero())

	got, err = env.accounts.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Data.Balance.Equal(decimal.NewFromInt(2000)))

	accountID := account.ID
	journal, err := env.transactions.SearchTransactions(ctx, domain.TransactionFilter{AccountID: &accountID})
	require.NoError(t, err)
	types := make(map[string]int)
	for _, entry := range *journal.Data {
		types[entry.TransactionType]++
	}
	assert.Equal(t, 1, types["loan_disbursement"])
	assert.Equal(t, 2, types["loan_payment"])
}

func TestApproveLoanTwiceFails(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	loan := applyTestLoan(t, env, account.ID, "1000", "5", 6)
	_, err := env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)

	resp, err := env.loans.ApproveLoan(ctx, loan.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, "INVALID_STATE", resp.Code)
}

func TestRejectLoan(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	loan := applyTestLoan(t, env, account.ID, "1000", "5", 6)

	rejected, err := env.loans.RejectLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Data.Status)

	// Rejected loans are terminal and never disburse.
	_, err = env.loans.ApproveLoan(ctx, loan.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := env.accounts.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Data.Balance.IsZero())
}

func TestMakePaymentGuards(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	loan := applyTestLoan(t, env, account.ID, "1000", "0", 10)

	// Pending loans cannot take payments.
	_, err := env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(100)})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)

	// Overpayment beyond the remaining amount.
	_, err = env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(1001)})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Drain the balance, then payment lacks funds.
	_, err = env.ledger.Withdraw(ctx, models.WithdrawRequest{AccountID: account.ID, Amount: decimal.NewFromInt(900)})
	require.NoError(t, err)
	_, err = env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(200)})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The failed payment must not touch the loan.
	got, err := env.loans.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, got.Data.Remaining.Equal(decimal.NewFromInt(1000)))
}

func TestMarkDefaulted(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	loan := applyTestLoan(t, env, account.ID, "1000", "5", 6)

	// Only active loans can default.
	_, err := env.loans.MarkDefaulted(ctx, loan.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)

	defaulted, err := env.loans.MarkDefaulted(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "defaulted", defaulted.Data.Status)
	assert.True(t, defaulted.Data.Remaining.Equal(decimal.NewFromInt(1000)), "write-off keeps the remaining amount on record")
}

func TestListLoansByStatus(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	first := applyTestLoan(t, env, account.ID, "1000", "5", 6)
	applyTestLoan(t, env, account.ID, "2000", "6", 12)
	_, err := env.loans.ApproveLoan(ctx, first.ID)
	require.NoError(t, err)

	active, err := env.loans.ListLoans(ctx, "active")
	require.NoError(t, err)
	require.Len(t, *active.Data, 1)
	assert.Equal(t, first.ID, (*active.Data)[0].ID)

	all, err := env.loans.ListLoans(ctx, "")
	require.NoError(t, err)
	assert.Len(t, *all.Data, 2)

	_, err = env.loans.ListLoans(ctx, "limbo")
	require.ErrorIs(t, err, domain.ErrValidation)

	mine, err := env.loans.ListAccountLoans(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, *mine.Data, 2)
}

func TestMonthlyPaymentStandardTerms(t *testing.T) {
	env := newTestEnv()

	payment, err := env.loans.MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(5), 12)
	require.NoError(t, err)
	assert.InDelta(t, 856.07, payment.InexactFloat64(), 0.01)
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	env := newTestEnv()

	payment, err := env.loans.MonthlyPayment(decimal.NewFromInt(10000), decimal.Zero, 12)
	require.NoError(t, err)
	assert.InDelta(t, 833.33, payment.InexactFloat64(), 0.01)
}

func TestMonthlyPaymentValidation(t *testing.T) {
	env := newTestEnv()

	_, err := env.loans.MonthlyPayment(decimal.Zero, decimal.NewFromInt(5), 12)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.loans.MonthlyPayment(decimal.NewFromInt(100), decimal.NewFromInt(5), 0)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.loans.MonthlyPayment(decimal.NewFromInt(100), decimal.NewFromInt(101), 12)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPaymentScheduleAbsorbsRoundingInFinalMonth(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	principal := decimal.NewFromInt(10000)
	term := 12
	loan := applyTestLoan(t, env, account.ID, "10000", "5.5", term)
	_, err := env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)

	resp, err := env.loans.LoanSummary(ctx, loan.ID)
	require.NoError(t, err)
	summary := *resp.Data

	schedule := summary.PaymentSchedule
	require.Len(t, schedule, term)

	principalSum := decimal.Zero
	for _, entry := range schedule {
		principalSum = principalSum.Add(entry.PrincipalPayment)
		assert.True(t, entry.InterestPayment.GreaterThanOrEqual(decimal.Zero))
	}

	assert.True(t, principalSum.Equal(principal), "scheduled principal %s must sum to %s", principalSum, principal)
	assert.True(t, schedule[term-1].RemainingBalance.IsZero())

	// Every month before the last pays the level amount.
	for _, entry := range schedule[:term-1] {
		assert.True(t, entry.PaymentAmount.Equal(summary.MonthlyPayment))
	}
}

func TestLoanSummaryTotalsAndPayments(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.NewFromInt(500))
	ctx := context.Background()

	loan := applyTestLoan(t, env, account.ID, "10000", "5", 12)
	_, err := env.loans.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)
	_, err = env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: loan.ID, Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	resp, err := env.loans.LoanSummary(ctx, loan.ID)
	require.NoError(t, err)
	summary := *resp.Data

	assert.Equal(t, loan.ID, summary.Loan.ID)
	assert.Equal(t, account.ID, summary.Account.ID)
	assert.InDelta(t, 856.07, summary.MonthlyPayment.InexactFloat64(), 0.01)
	assert.True(t, summary.TotalPayments.Equal(summary.MonthlyPayment.Mul(decimal.NewFromInt(12))))
	assert.True(t, summary.TotalInterest.Equal(summary.TotalPayments.Sub(mustDecimal(t, "10000"))))
	require.Len(t, summary.PaymentsMade, 1)
	assert.True(t, summary.PaymentsMade[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Len(t, summary.PaymentSchedule, 12)
}

func TestLoanSummarySeparatesPaymentsForPrefixedLoanIDs(t *testing.T) {
	env := newTestEnv()
	account := createTestAccount(t, env, decimal.Zero)
	ctx := context.Background()

	// Loans #1 through #10 on one account; "#1" is a prefix of "#10".
	first := applyTestLoan(t, env, account.ID, "1000", "0", 10)
	var tenth models.LoanResponse
	for i := 0; i < 9; i++ {
		tenth = applyTestLoan(t, env, account.ID, "1000", "0", 10)
	}
	require.Equal(t, first.ID+9, tenth.ID)

	_, err := env.loans.ApproveLoan(ctx, first.ID)
	require.NoError(t, err)
	_, err = env.loans.ApproveLoan(ctx, tenth.ID)
	require.NoError(t, err)

	_, err = env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: first.ID, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = env.loans.MakePayment(ctx, models.LoanPaymentRequest{LoanID: tenth.ID, Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)

	resp, err := env.loans.LoanSummary(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, resp.Data.PaymentsMade, 1)
	assert.True(t, resp.Data.PaymentsMade[0].Amount.Equal(decimal.NewFromInt(100)))

	resp, err = env.loans.LoanSummary(ctx, tenth.ID)
	require.NoError(t, err)
	require.Len(t, resp.Data.PaymentsMade, 1)
	assert.True(t, resp.Data.PaymentsMade[0].Amount.Equal(decimal.NewFromInt(250)))
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			"jan 31 plus one month",
			time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC),
			1,
			time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC),
		},
		{
			"leap february",
			time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			1,
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"year rollover",
			time.Date(2025, time.December, 15, 8, 30, 0, 0, time.UTC),
			2,
			time.Date(2026, time.February, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			"full year",
			time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
			12,
			time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"may 31 plus one month",
			time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC),
			1,
			time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, services.AddMonths(tc.start, tc.months))
		})
	}
}
