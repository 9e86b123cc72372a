package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountsByNumber[account.AccountNumber]; exists {
		return domain.Account{}, fmt.Errorf("account number %s already exists: %w", account.AccountNumber, domain.ErrDuplicate)
	}

	s.nextAccountID++
	account.ID = s.nextAccountID
	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now

	s.accounts[account.ID] = account
	s.accountsByNumber[account.AccountNumber] = account.ID

	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id int64) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	return account, nil
}

func (r *AccountRepository) GetByNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.accountsByNumber[accountNumber]
	if !ok {
		return domain.Account{}, fmt.Errorf("account number %s: %w", accountNumber, domain.ErrNotFound)
	}

	return s.accounts[id], nil
}

func (r *AccountRepository) List(_ context.Context) ([]domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accountsNewestFirst(), nil
}

func (r *AccountRepository) Search(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Account, 0)
	for _, account := range s.accountsNewestFirst() {
		if !matchesAccountFilter(account, filter) {
			continue
		}
		matched = append(matched, account)
	}

	return matched, nil
}

func (r *AccountRepository) Update(_ context.Context, id int64, update domain.AccountUpdate) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	changed := false
	if update.OwnerName != nil {
		account.OwnerName = *update.OwnerName
		changed = true
	}
	if update.Email != nil {
		value := *update.Email
		account.Email = &value
		changed = true
	}
	if update.PhoneNumber != nil {
		value := *update.PhoneNumber
		account.PhoneNumber = &value
		changed = true
	}
	if update.Type != nil {
		account.Type = *update.Type
		changed = true
	}

	if changed {
		account.UpdatedAt = s.now()
		s.accounts[id] = account
	}

	return account, nil
}

func (r *AccountRepository) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	account.Balance = balance
	account.UpdatedAt = s.now()
	s.accounts[id] = account

	return account, nil
}

func (r *AccountRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	s.deleteAccountCascade(id)
	return nil
}

func (r *AccountRepository) HasOpenLoans(_ context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loan := range s.loans {
		if loan.AccountID != id {
			continue
		}
		if loan.Status == domain.LoanStatusPending || loan.Status == domain.LoanStatusActive {
			return true, nil
		}
	}

	return false, nil
}

func (r *AccountRepository) Summary(_ context.Context, id int64) (domain.AccountSummary, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.AccountSummary{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	summary := domain.AccountSummary{
		Account:             account,
		ActiveLoanRemaining: decimal.Zero,
	}

	totalsByType := make(map[domain.TransactionType]*domain.TransactionTypeTotal)
	for _, transaction := range s.transactions {
		if transaction.AccountID != id {
			continue
		}
		total, ok := totalsByType[transaction.Type]
		if !ok {
			total = &domain.TransactionTypeTotal{Type: transaction.Type, Total: decimal.Zero}
			totalsByType[transaction.Type] = total
		}
		total.Count++
		total.Total = total.Total.Add(transaction.Amount)
	}
	for _, transactionType := range domain.ValidTransactionTypes() {
		if total, ok := totalsByType[transactionType]; ok {
			summary.TransactionTotals = append(summary.TransactionTotals, *total)
		}
	}

	for _, transaction := range s.transactionsNewestFirst() {
		if transaction.AccountID != id {
			continue
		}
		summary.RecentTransactions = append(summary.RecentTransactions, transaction)
		if len(summary.RecentTransactions) == 10 {
			break
		}
	}

	for _, loan := range s.loans {
		if loan.AccountID == id && loan.Status == domain.LoanStatusActive {
			summary.ActiveLoanCount++
			summary.ActiveLoanRemaining = summary.ActiveLoanRemaining.Add(loan.Remaining)
		}
	}

	return summary, nil
}

func matchesAccountFilter(account domain.Account, filter domain.AccountFilter) bool {
	if filter.OwnerNameContains != "" &&
		!strings.Contains(strings.ToLower(account.OwnerName), strings.ToLower(filter.OwnerNameContains)) {
		return false
	}
	if filter.Type != "" && account.Type != filter.Type {
		return false
	}
	if filter.EmailContains != "" {
		if account.Email == nil ||
			!strings.Contains(strings.ToLower(*account.Email), strings.ToLower(filter.EmailContains)) {
			return false
		}
	}
	if filter.MinBalance != nil && account.Balance.LessThan(*filter.MinBalance) {
		return false
	}
	if filter.MaxBalance != nil && account.Balance.GreaterThan(*filter.MaxBalance) {
		return false
	}
	if filter.CreatedAfter != nil && account.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && account.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}
	return true
}
