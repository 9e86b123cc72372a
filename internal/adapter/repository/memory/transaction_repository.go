package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Insert(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[transaction.AccountID]; !ok {
		return domain.Transaction{}, fmt.Errorf("account %d: %w", transaction.AccountID, domain.ErrNotFound)
	}

	return s.insertTransaction(transaction), nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id int64) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, ok := s.transactions[id]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", id, domain.ErrNotFound)
	}

	return transaction, nil
}

func (r *TransactionRepository) ListForAccount(_ context.Context, accountID int64, limit, offset int, transactionType domain.TransactionType) ([]domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Transaction, 0)
	for _, transaction := range s.transactionsNewestFirst() {
		if transaction.AccountID != accountID {
			continue
		}
		if transactionType != "" && transaction.Type != transactionType {
			continue
		}
		matched = append(matched, transaction)
	}

	return paginateTransactions(matched, limit, offset), nil
}

func (r *TransactionRepository) Stats(_ context.Context, accountID *int64, startDate, endDate *time.Time) ([]domain.TransactionStats, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	statsByType := make(map[domain.TransactionType]*domain.TransactionStats)
	for _, transaction := range s.transactions {
		if accountID != nil && transaction.AccountID != *accountID {
			continue
		}
		if startDate != nil && transaction.CreatedAt.Before(*startDate) {
			continue
		}
		if endDate != nil && transaction.CreatedAt.After(*endDate) {
			continue
		}

		entry, ok := statsByType[transaction.Type]
		if !ok {
			entry = &domain.TransactionStats{
				Type:    transaction.Type,
				Total:   decimal.Zero,
				Minimum: transaction.Amount,
				Maximum: transaction.Amount,
			}
			statsByType[transaction.Type] = entry
		}
		entry.Count++
		entry.Total = entry.Total.Add(transaction.Amount)
		if transaction.Amount.LessThan(entry.Minimum) {
			entry.Minimum = transaction.Amount
		}
		if transaction.Amount.GreaterThan(entry.Maximum) {
			entry.Maximum = transaction.Amount
		}
	}

	stats := make([]domain.TransactionStats, 0, len(statsByType))
	for _, transactionType := range domain.ValidTransactionTypes() {
		entry, ok := statsByType[transactionType]
		if !ok {
			continue
		}
		entry.Average = entry.Total.Div(decimal.NewFromInt(entry.Count))
		stats = append(stats, *entry)
	}

	return stats, nil
}

func (r *TransactionRepository) Search(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Transaction, 0)
	for _, transaction := range s.transactionsNewestFirst() {
		if !matchesTransactionFilter(transaction, filter) {
			continue
		}
		matched = append(matched, transaction)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	return paginateTransactions(matched, limit, filter.Offset), nil
}

func matchesTransactionFilter(transaction domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.AccountID != nil && transaction.AccountID != *filter.AccountID {
		return false
	}
	if filter.Type != "" && transaction.Type != filter.Type {
		return false
	}
	if filter.MinAmount != nil && transaction.Amount.LessThan(*filter.MinAmount) {
		return false
	}
	if filter.MaxAmount != nil && transaction.Amount.GreaterThan(*filter.MaxAmount) {
		return false
	}
	if filter.StartDate != nil && transaction.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && transaction.CreatedAt.After(*filter.EndDate) {
		return false
	}
	if filter.DescriptionContains != "" &&
		!strings.Contains(strings.ToLower(transaction.Description), strings.ToLower(filter.DescriptionContains)) {
		return false
	}
	return true
}

func paginateTransactions(transactions []domain.Transaction, limit, offset int) []domain.Transaction {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(transactions) {
		return []domain.Transaction{}
	}
	end := offset + limit
	if limit <= 0 || end > len(transactions) {
		end = len(transactions)
	}
	return transactions[offset:end]
}
