package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

// LedgerRepository applies each posting under the store mutex, so the
// read-modify-write of every balance is atomic, matching the row-lock
// discipline of the postgres adapter.
type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) PostDeposit(_ context.Context, accountID int64, amount decimal.Decimal, description string) (domain.PostingResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.PostingResult{}, fmt.Errorf("account %d: %w", accountID, domain.ErrNotFound)
	}

	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = s.now()
	s.accounts[accountID] = account

	transaction := s.insertTransaction(domain.Transaction{
		AccountID:   accountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	})

	return domain.PostingResult{Transaction: transaction, NewBalance: account.Balance}, nil
}

func (r *LedgerRepository) PostWithdrawal(_ context.Context, accountID int64, amount decimal.Decimal, description string) (domain.PostingResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.PostingResult{}, fmt.Errorf("account %d: %w", accountID, domain.ErrNotFound)
	}

	if account.Balance.LessThan(amount) {
		return domain.PostingResult{}, fmt.Errorf("account %d balance %s below withdrawal %s: %w",
			accountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
	}

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = s.now()
	s.accounts[accountID] = account

	transaction := s.insertTransaction(domain.Transaction{
		AccountID:   accountID,
		Type:        domain.TransactionTypeWithdrawal,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	})

	return domain.PostingResult{Transaction: transaction, NewBalance: account.Balance}, nil
}

func (r *LedgerRepository) PostTransfer(_ context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, description string) (domain.TransferResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	fromAccount, ok := s.accounts[fromAccountID]
	if !ok {
		return domain.TransferResult{}, fmt.Errorf("account %d: %w", fromAccountID, domain.ErrNotFound)
	}
	toAccount, ok := s.accounts[toAccountID]
	if !ok {
		return domain.TransferResult{}, fmt.Errorf("account %d: %w", toAccountID, domain.ErrNotFound)
	}

	if fromAccount.Balance.LessThan(amount) {
		return domain.TransferResult{}, fmt.Errorf("account %d balance %s below transfer %s: %w",
			fromAccountID, fromAccount.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
	}

	now := s.now()
	fromAccount.Balance = fromAccount.Balance.Sub(amount)
	fromAccount.UpdatedAt = now
	s.accounts[fromAccountID] = fromAccount

	toAccount.Balance = toAccount.Balance.Add(amount)
	toAccount.UpdatedAt = now
	s.accounts[toAccountID] = toAccount

	outTransaction := s.insertTransaction(domain.Transaction{
		AccountID:        fromAccountID,
		Type:             domain.TransactionTypeTransferOut,
		Amount:           amount,
		Description:      description,
		Reference:        uuid.NewString(),
		RelatedAccountID: &toAccountID,
	})
	inTransaction := s.insertTransaction(domain.Transaction{
		AccountID:            toAccountID,
		Type:                 domain.TransactionTypeTransferIn,
		Amount:               amount,
		Description:          description,
		Reference:            uuid.NewString(),
		RelatedAccountID:     &fromAccountID,
		RelatedTransactionID: &outTransaction.ID,
	})

	return domain.TransferResult{
		OutTransaction: outTransaction,
		InTransaction:  inTransaction,
		FromBalance:    fromAccount.Balance,
		ToBalance:      toAccount.Balance,
	}, nil
}

func (r *LedgerRepository) PostLoanDisbursement(_ context.Context, loanID int64, startedAt, endedAt time.Time, description string) (domain.LoanPostingResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[loanID]
	if !ok {
		return domain.LoanPostingResult{}, fmt.Errorf("loan %d: %w", loanID, domain.ErrNotFound)
	}
	if loan.Status != domain.LoanStatusPending {
		return domain.LoanPostingResult{}, fmt.Errorf("loan %d status %s, expected pending: %w", loanID, loan.Status, domain.ErrInvalidState)
	}

	account, ok := s.accounts[loan.AccountID]
	if !ok {
		return domain.LoanPostingResult{}, fmt.Errorf("account %d: %w", loan.AccountID, domain.ErrNotFound)
	}

	loan.Status = domain.LoanStatusActive
	started := startedAt
	ended := endedAt
	loan.StartedAt = &started
	loan.EndedAt = &ended
	s.loans[loanID] = loan

	account.Balance = account.Balance.Add(loan.Principal)
	account.UpdatedAt = s.now()
	s.accounts[loan.AccountID] = account

	transaction := s.insertTransaction(domain.Transaction{
		AccountID:   loan.AccountID,
		Type:        domain.TransactionTypeLoanDisbursement,
		Amount:      loan.Principal,
		Description: description,
		Reference:   uuid.NewString(),
	})

	return domain.LoanPostingResult{Loan: loan, Transaction: transaction, NewBalance: account.Balance}, nil
}

func (r *LedgerRepository) PostLoanPayment(_ context.Context, loanID int64, amount decimal.Decimal, description string) (domain.LoanPostingResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[loanID]
	if !ok {
		return domain.LoanPostingResult{}, fmt.Errorf("loan %d: %w", loanID, domain.ErrNotFound)
	}
	if loan.Status != domain.LoanStatusActive {
		return domain.LoanPostingResult{}, fmt.Errorf("loan %d status %s, expected active: %w", loanID, loan.Status, domain.ErrInvalidState)
	}
	if amount.GreaterThan(loan.Remaining) {
		return domain.LoanPostingResult{}, fmt.Errorf("payment %s exceeds remaining balance %s: %w",
			amount.StringFixed(2), loan.Remaining.StringFixed(2), domain.ErrValidation)
	}

	account, ok := s.accounts[loan.AccountID]
	if !ok {
		return domain.LoanPostingResult{}, fmt.Errorf("account %d: %w", loan.AccountID, domain.ErrNotFound)
	}
	if account.Balance.LessThan(amount) {
		return domain.LoanPostingResult{}, fmt.Errorf("account %d balance %s below loan payment %s: %w",
			loan.AccountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
	}

	now := s.now()
	loan.Remaining = loan.Remaining.Sub(amount)
	if loan.Remaining.LessThanOrEqual(decimal.Zero) {
		loan.Remaining = decimal.Zero
		loan.Status = domain.LoanStatusPaid
	}
	loan.LastPaymentAt = &now
	s.loans[loanID] = loan

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = now
	s.accounts[loan.AccountID] = account

	transaction := s.insertTransaction(domain.Transaction{
		AccountID:   loan.AccountID,
		Type:        domain.TransactionTypeLoanPayment,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	})

	return domain.LoanPostingResult{Loan: loan, Transaction: transaction, NewBalance: account.Balance}, nil
}
