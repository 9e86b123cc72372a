package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
)

const loanColumns = `loan_id, account_id, principal, interest_rate, term_months, remaining_amount, status, applied_at, started_at, ended_at, last_payment_at`

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	logger.Info("loan repository create", logger.Fields{
		"accountId":  loan.AccountID,
		"principal":  loan.Principal,
		"termMonths": loan.TermMonths,
	})

	const query = `
INSERT INTO loans (
	account_id,
	principal,
	interest_rate,
	term_months,
	remaining_amount,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING loan_id, applied_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		loan.AccountID,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.Remaining,
		loan.Status,
	).Scan(&loan.ID, &loan.AppliedAt); err != nil {
		logger.Error("loan repository create failed", err, logger.Fields{
			"accountId": loan.AccountID,
		})
		return domain.Loan{}, storeError("create loan", err)
	}

	logger.Info("loan repository create success", logger.Fields{
		"loanId":    loan.ID,
		"accountId": loan.AccountID,
	})

	return loan, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("loan repository get by id failed", err, logger.Fields{
			"loanId": id,
		})
		return domain.Loan{}, storeError("get loan by id", err)
	}

	return loan, nil
}

func (r *LoanRepository) ListForAccount(ctx context.Context, accountID int64) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE account_id = $1 ORDER BY applied_at DESC, loan_id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("loan repository list for account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, storeError("list account loans", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *LoanRepository) List(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY applied_at DESC, loan_id DESC`
	args := []any{}

	if status != "" {
		query = `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY applied_at DESC, loan_id DESC`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("loan repository list failed", err, logger.Fields{
			"status": status,
		})
		return nil, storeError("list loans", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id int64, status domain.LoanStatus) (domain.Loan, error) {
	logger.Info("loan repository update status", logger.Fields{
		"loanId": id,
		"status": status,
	})

	const query = `
UPDATE loans
SET status = $2
WHERE loan_id = $1
RETURNING ` + loanColumns

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("loan repository update status failed", err, logger.Fields{
			"loanId": id,
		})
		return domain.Loan{}, storeError("update loan status", err)
	}

	return loan, nil
}

func scanLoan(row rowScanner) (domain.Loan, error) {
	var (
		loan          domain.Loan
		startedAt     sql.NullTime
		endedAt       sql.NullTime
		lastPaymentAt sql.NullTime
	)

	if err := row.Scan(
		&loan.ID,
		&loan.AccountID,
		&loan.Principal,
		&loan.InterestRate,
		&loan.TermMonths,
		&loan.Remaining,
		&loan.Status,
		&loan.AppliedAt,
		&startedAt,
		&endedAt,
		&lastPaymentAt,
	); err != nil {
		return domain.Loan{}, err
	}

	if startedAt.Valid {
		value := startedAt.Time
		loan.StartedAt = &value
	}
	if endedAt.Valid {
		value := endedAt.Time
		loan.EndedAt = &value
	}
	if lastPaymentAt.Valid {
		value := lastPaymentAt.Time
		loan.LastPaymentAt = &value
	}

	return loan, nil
}

func collectLoans(rows *sql.Rows) ([]domain.Loan, error) {
	loans := make([]domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, storeError("scan loan row", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate loan rows", err)
	}

	return loans, nil
}
