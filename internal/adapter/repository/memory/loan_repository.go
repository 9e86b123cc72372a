package memory

import (
	"context"
	"fmt"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type LoanRepository struct {
	store *Store
}

func NewLoanRepository(store *Store) *LoanRepository {
	return &LoanRepository{store: store}
}

func (r *LoanRepository) Create(_ context.Context, loan domain.Loan) (domain.Loan, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[loan.AccountID]; !ok {
		return domain.Loan{}, fmt.Errorf("account %d: %w", loan.AccountID, domain.ErrNotFound)
	}

	s.nextLoanID++
	loan.ID = s.nextLoanID
	loan.AppliedAt = s.now()
	s.loans[loan.ID] = loan

	return loan, nil
}

func (r *LoanRepository) GetByID(_ context.Context, id int64) (domain.Loan, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[id]
	if !ok {
		return domain.Loan{}, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
	}

	return loan, nil
}

func (r *LoanRepository) ListForAccount(_ context.Context, accountID int64) ([]domain.Loan, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Loan, 0)
	for _, loan := range s.loansNewestFirst() {
		if loan.AccountID == accountID {
			matched = append(matched, loan)
		}
	}

	return matched, nil
}

func (r *LoanRepository) List(_ context.Context, status domain.LoanStatus) ([]domain.Loan, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Loan, 0)
	for _, loan := range s.loansNewestFirst() {
		if status != "" && loan.Status != status {
			continue
		}
		matched = append(matched, loan)
	}

	return matched, nil
}

func (r *LoanRepository) UpdateStatus(_ context.Context, id int64, status domain.LoanStatus) (domain.Loan, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[id]
	if !ok {
		return domain.Loan{}, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
	}

	loan.Status = status
	s.loans[id] = loan

	return loan, nil
}
