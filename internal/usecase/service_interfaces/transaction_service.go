package service_interfaces

import (
	"context"
	"time"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
)

type TransactionService interface {
	Record(ctx context.Context, request models.RecordTransactionRequest) (commons.Response[models.TransactionResponse], error)
	GetTransaction(ctx context.Context, id int64) (commons.Response[models.TransactionResponse], error)
	ListAccountTransactions(ctx context.Context, accountID int64, limit, offset int, transactionType string) (commons.Response[[]models.TransactionResponse], error)
	TransactionStats(ctx context.Context, accountID *int64, startDate, endDate *time.Time) (commons.Response[[]models.TransactionStatsResponse], error)
	SearchTransactions(ctx context.Context, filter domain.TransactionFilter) (commons.Response[[]models.TransactionResponse], error)
}
