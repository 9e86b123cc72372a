package domain

import (
	"context"
	"time"
)

type TransactionRepository interface {
	Insert(ctx context.Context, transaction Transaction) (Transaction, error)
	GetByID(ctx context.Context, id int64) (Transaction, error)
	ListForAccount(ctx context.Context, accountID int64, limit, offset int, transactionType TransactionType) ([]Transaction, error)
	Stats(ctx context.Context, accountID *int64, startDate, endDate *time.Time) ([]TransactionStats, error)
	Search(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
}
