package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
)

const transactionColumns = `transaction_id, account_id, transaction_type, amount, description, reference, related_account_id, related_transaction_id, created_at`

const insertTransactionQuery = `
INSERT INTO transactions (
	account_id,
	transaction_type,
	amount,
	description,
	reference,
	related_account_id,
	related_transaction_id
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING transaction_id, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Insert(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository insert", logger.Fields{
		"accountId":       transaction.AccountID,
		"transactionType": transaction.Type,
		"amount":          transaction.Amount,
	})

	if err := r.db.QueryRowContext(
		ctx,
		insertTransactionQuery,
		transaction.AccountID,
		transaction.Type,
		transaction.Amount,
		transaction.Description,
		transaction.Reference,
		transaction.RelatedAccountID,
		transaction.RelatedTransactionID,
	).Scan(&transaction.ID, &transaction.CreatedAt); err != nil {
		logger.Error("transaction repository insert failed", err, logger.Fields{
			"accountId": transaction.AccountID,
		})
		return domain.Transaction{}, storeError("insert transaction", err)
	}

	logger.Info("transaction repository insert success", logger.Fields{
		"transactionId": transaction.ID,
		"accountId":     transaction.AccountID,
	})

	return transaction, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`

	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, fmt.Errorf("transaction %d: %w", id, domain.ErrNotFound)
		}
		logger.Error("transaction repository get by id failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.Transaction{}, storeError("get transaction by id", err)
	}

	return transaction, nil
}

func (r *TransactionRepository) ListForAccount(ctx context.Context, accountID int64, limit, offset int, transactionType domain.TransactionType) ([]domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`)
	args := []any{accountID}

	if transactionType != "" {
		args = append(args, transactionType)
		fmt.Fprintf(&sb, " AND transaction_type = $%d", len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, transaction_id DESC LIMIT $%d", len(args))
	args = append(args, offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.Error("transaction repository list for account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, storeError("list account transactions", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) Stats(ctx context.Context, accountID *int64, startDate, endDate *time.Time) ([]domain.TransactionStats, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT transaction_type,
       COUNT(*),
       COALESCE(SUM(amount), 0),
       COALESCE(AVG(amount), 0),
       COALESCE(MIN(amount), 0),
       COALESCE(MAX(amount), 0)
FROM transactions
WHERE 1=1`)
	args := make([]any, 0, 3)

	if accountID != nil {
		args = append(args, *accountID)
		fmt.Fprintf(&sb, " AND account_id = $%d", len(args))
	}
	if startDate != nil {
		args = append(args, *startDate)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		fmt.Fprintf(&sb, " AND created_at <= $%d", len(args))
	}

	sb.WriteString(" GROUP BY transaction_type ORDER BY transaction_type")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.Error("transaction repository stats failed", err, nil)
		return nil, storeError("transaction stats", err)
	}
	defer rows.Close()

	stats := make([]domain.TransactionStats, 0)
	for rows.Next() {
		var entry domain.TransactionStats
		if err := rows.Scan(
			&entry.Type,
			&entry.Count,
			&entry.Total,
			&entry.Average,
			&entry.Minimum,
			&entry.Maximum,
		); err != nil {
			return nil, storeError("scan transaction stats row", err)
		}
		stats = append(stats, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate transaction stats rows", err)
	}

	return stats, nil
}

func (r *TransactionRepository) Search(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`)
	args := make([]any, 0, 9)

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		fmt.Fprintf(&sb, " AND account_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND transaction_type = $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		fmt.Fprintf(&sb, " AND amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		fmt.Fprintf(&sb, " AND amount <= $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		fmt.Fprintf(&sb, " AND created_at <= $%d", len(args))
	}
	if filter.DescriptionContains != "" {
		args = append(args, "%"+filter.DescriptionContains+"%")
		fmt.Fprintf(&sb, " AND description ILIKE $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, transaction_id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.Error("transaction repository search failed", err, nil)
		return nil, storeError("search transactions", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		transaction          domain.Transaction
		relatedAccountID     sql.NullInt64
		relatedTransactionID sql.NullInt64
	)

	if err := row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.Description,
		&transaction.Reference,
		&relatedAccountID,
		&relatedTransactionID,
		&transaction.CreatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	if relatedAccountID.Valid {
		value := relatedAccountID.Int64
		transaction.RelatedAccountID = &value
	}
	if relatedTransactionID.Valid {
		value := relatedTransactionID.Int64
		transaction.RelatedTransactionID = &value
	}

	return transaction, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, storeError("scan transaction row", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate transaction rows", err)
	}

	return transactions, nil
}
