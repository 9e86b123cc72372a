package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
	"github.com/saeedahmed725/banking-system/internal/models"
)

const defaultSearchLimit = 50

type TransactionService struct {
	transactionRepo domain.TransactionRepository
}

func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// Record appends a journal entry without touching any balance. Balance-moving
// operations belong to the ledger service, which writes their journal entries
// inside the same store transaction as the balance update.
func (s *TransactionService) Record(ctx context.Context, req models.RecordTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service record request", logger.Fields{
		"accountId":       req.AccountID,
		"transactionType": req.TransactionType,
		"amount":          req.Amount,
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service record validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse](err, "validation failed", err.Error()), err
	}

	transactionType := domain.TransactionType(req.TransactionType)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = transactionType.DefaultDescription()
	}

	inserted, err := s.transactionRepo.Insert(ctx, domain.Transaction{
		AccountID:        req.AccountID,
		Type:             transactionType,
		Amount:           req.Amount.Round(2),
		Description:      description,
		Reference:        uuid.NewString(),
		RelatedAccountID: req.RelatedAccountID,
	})
	if err != nil {
		logger.Error("transaction service record insert failed", err, logger.Fields{
			"accountId": req.AccountID,
		})
		return commons.ErrorResponse[models.TransactionResponse](err, "failed to record transaction", err.Error()), err
	}

	logger.Info("transaction service record success", logger.Fields{
		"transactionId": inserted.ID,
		"reference":     inserted.Reference,
	})

	return commons.SuccessResponse("transaction recorded successfully", transactionResponse(inserted)), nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (commons.Response[models.TransactionResponse], error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("transaction service get transaction failed", err, logger.Fields{"transactionId": id})
		return commons.ErrorResponse[models.TransactionResponse](err, "failed to fetch transaction", err.Error()), err
	}

	return commons.SuccessResponse("transaction fetched successfully", transactionResponse(transaction)), nil
}

func (s *TransactionService) ListAccountTransactions(ctx context.Context, accountID int64, limit, offset int, transactionType string) (commons.Response[[]models.TransactionResponse], error) {
	if accountID <= 0 {
		err := fmt.Errorf("accountId is required: %w", domain.ErrValidation)
		return commons.ErrorResponse[[]models.TransactionResponse](err, "validation failed", err.Error()), err
	}
	if transactionType != "" && !domain.TransactionType(transactionType).Valid() {
		err := fmt.Errorf("transactionType %q is not one of %v: %w",
			transactionType, domain.ValidTransactionTypes(), domain.ErrValidation)
		return commons.ErrorResponse[[]models.TransactionResponse](err, "validation failed", err.Error()), err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.transactionRepo.ListForAccount(ctx, accountID, limit, offset, domain.TransactionType(transactionType))
	if err != nil {
		logger.Error("transaction service list failed", err, logger.Fields{"accountId": accountID})
		return commons.ErrorResponse[[]models.TransactionResponse](err, "failed to list transactions", err.Error()), err
	}

	return commons.SuccessResponse("transactions listed successfully", transactionResponses(transactions)), nil
}

func (s *TransactionService) TransactionStats(ctx context.Context, accountID *int64, startDate, endDate *time.Time) (commons.Response[[]models.TransactionStatsResponse], error) {
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		err := fmt.Errorf("endDate precedes startDate: %w", domain.ErrValidation)
		return commons.ErrorResponse[[]models.TransactionStatsResponse](err, "validation failed", err.Error()), err
	}

	stats, err := s.transactionRepo.Stats(ctx, accountID, startDate, endDate)
	if err != nil {
		logger.Error("transaction service stats failed", err, nil)
		return commons.ErrorResponse[[]models.TransactionStatsResponse](err, "failed to build transaction stats", err.Error()), err
	}

	responses := make([]models.TransactionStatsResponse, 0, len(stats))
	for _, stat := range stats {
		responses = append(responses, models.TransactionStatsResponse{
			TransactionType: string(stat.Type),
			Count:           stat.Count,
			Total:           stat.Total,
			Average:         stat.Average,
			Minimum:         stat.Minimum,
			Maximum:         stat.Maximum,
		})
	}

	return commons.SuccessResponse("transaction stats built successfully", responses), nil
}

func (s *TransactionService) SearchTransactions(ctx context.Context, filter domain.TransactionFilter) (commons.Response[[]models.TransactionResponse], error) {
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		err := fmt.Errorf("minAmount exceeds maxAmount: %w", domain.ErrValidation)
		return commons.ErrorResponse[[]models.TransactionResponse](err, "validation failed", err.Error()), err
	}
	if filter.Type != "" && !filter.Type.Valid() {
		err := fmt.Errorf("transactionType %q is not one of %v: %w",
			filter.Type, domain.ValidTransactionTypes(), domain.ErrValidation)
		return commons.ErrorResponse[[]models.TransactionResponse](err, "validation failed", err.Error()), err
	}

	transactions, err := s.transactionRepo.Search(ctx, filter)
	if err != nil {
		logger.Error("transaction service search failed", err, nil)
		return commons.ErrorResponse[[]models.TransactionResponse](err, "failed to search transactions", err.Error()), err
	}

	return commons.SuccessResponse("transactions searched successfully", transactionResponses(transactions)), nil
}
