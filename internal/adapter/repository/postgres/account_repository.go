package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
)

const accountColumns = `account_id, account_number, owner_name, account_type, email, phone_number, balance, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountNumber": account.AccountNumber,
		"ownerName":     account.OwnerName,
		"accountType":   account.Type,
	})

	const query = `
INSERT INTO accounts (
	account_number,
	owner_name,
	account_type,
	email,
	phone_number,
	balance
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING account_id, created_at, updated_at`

	var (
		id        int64
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.AccountNumber,
		account.OwnerName,
		account.Type,
		account.Email,
		account.PhoneNumber,
		account.Balance,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("account repository get by id failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, storeError("get account by id", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account number %s: %w", accountNumber, domain.ErrNotFound)
		}
		logger.Error("account repository get by number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, storeError("get account by number", err)
	}

	return account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, account_id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, storeError("list accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) Search(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`)
	args := make([]any, 0, 7)

	if filter.OwnerNameContains != "" {
		args = append(args, "%"+filter.OwnerNameContains+"%")
		fmt.Fprintf(&sb, " AND owner_name ILIKE $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND account_type = $%d", len(args))
	}
	if filter.EmailContains != "" {
		args = append(args, "%"+filter.EmailContains+"%")
		fmt.Fprintf(&sb, " AND email ILIKE $%d", len(args))
	}
	if filter.MinBalance != nil {
		args = append(args, *filter.MinBalance)
		fmt.Fprintf(&sb, " AND balance >= $%d", len(args))
	}
	if filter.MaxBalance != nil {
		args = append(args, *filter.MaxBalance)
		fmt.Fprintf(&sb, " AND balance <= $%d", len(args))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		fmt.Fprintf(&sb, " AND created_at <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC, account_id DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.Error("account repository search failed", err, nil)
		return nil, storeError("search accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) Update(ctx context.Context, id int64, update domain.AccountUpdate) (domain.Account, error) {
	logger.Info("account repository update", logger.Fields{
		"accountId": id,
	})

	setClauses := make([]string, 0, 4)
	args := []any{id}

	if update.OwnerName != nil {
		args = append(args, *update.OwnerName)
		setClauses = append(setClauses, fmt.Sprintf("owner_name = $%d", len(args)))
	}
	if update.Email != nil {
		args = append(args, *update.Email)
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", len(args)))
	}
	if update.PhoneNumber != nil {
		args = append(args, *update.PhoneNumber)
		setClauses = append(setClauses, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if update.Type != nil {
		args = append(args, *update.Type)
		setClauses = append(setClauses, fmt.Sprintf("account_type = $%d", len(args)))
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`
UPDATE accounts
SET %s,
    updated_at = NOW()
WHERE account_id = $1
RETURNING `+accountColumns, strings.Join(setClauses, ", "))

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("account repository update failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, storeError("update account", err)
	}

	return account, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository update balance", logger.Fields{
		"accountId":  id,
		"newBalance": balance,
	})

	const query = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE account_id = $1
RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, balance))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("account repository update balance failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, storeError("update account balance", err)
	}

	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	logger.Info("account repository delete", logger.Fields{
		"accountId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = $1`, id)
	if err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{
			"accountId": id,
		})
		return storeError("delete account", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeError("delete account rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	logger.Info("account repository delete success", logger.Fields{
		"accountId": id,
	})
	return nil
}

func (r *AccountRepository) HasOpenLoans(ctx context.Context, id int64) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM loans
	WHERE account_id = $1
	  AND status IN ('pending', 'active')
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.Error("account repository has open loans failed", err, logger.Fields{
			"accountId": id,
		})
		return false, storeError("check open loans", err)
	}

	return exists, nil
}

func (r *AccountRepository) Summary(ctx context.Context, id int64) (domain.AccountSummary, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.AccountSummary{}, err
	}

	summary := domain.AccountSummary{
		Account:             account,
		ActiveLoanRemaining: decimal.Zero,
	}

	const totalsQuery = `
SELECT transaction_type, COUNT(*), COALESCE(SUM(amount), 0)
FROM transactions
WHERE account_id = $1
GROUP BY transaction_type
ORDER BY transaction_type`

	rows, err := r.db.QueryContext(ctx, totalsQuery, id)
	if err != nil {
		logger.Error("account repository summary totals failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.AccountSummary{}, storeError("account summary totals", err)
	}
	defer rows.Close()

	for rows.Next() {
		var total domain.TransactionTypeTotal
		if err := rows.Scan(&total.Type, &total.Count, &total.Total); err != nil {
			return domain.AccountSummary{}, storeError("scan account summary total", err)
		}
		summary.TransactionTotals = append(summary.TransactionTotals, total)
	}
	if err := rows.Err(); err != nil {
		return domain.AccountSummary{}, storeError("account summary totals", err)
	}

	const recentQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, transaction_id DESC
LIMIT 10`

	recentRows, err := r.db.QueryContext(ctx, recentQuery, id)
	if err != nil {
		logger.Error("account repository summary recent transactions failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.AccountSummary{}, storeError("account summary recent transactions", err)
	}
	defer recentRows.Close()

	summary.RecentTransactions, err = collectTransactions(recentRows)
	if err != nil {
		return domain.AccountSummary{}, err
	}

	const loanQuery = `
SELECT COUNT(*), COALESCE(SUM(remaining_amount), 0)
FROM loans
WHERE account_id = $1
  AND status = 'active'`

	if err := r.db.QueryRowContext(ctx, loanQuery, id).Scan(&summary.ActiveLoanCount, &summary.ActiveLoanRemaining); err != nil {
		logger.Error("account repository summary loans failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.AccountSummary{}, storeError("account summary loans", err)
	}

	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account     domain.Account
		email       sql.NullString
		phoneNumber sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.OwnerName,
		&account.Type,
		&email,
		&phoneNumber,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	if email.Valid {
		value := email.String
		account.Email = &value
	}
	if phoneNumber.Valid {
		value := phoneNumber.String
		account.PhoneNumber = &value
	}

	return account, nil
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storeError("scan account row", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate account rows", err)
	}

	return accounts, nil
}
