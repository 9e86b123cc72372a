// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. The semantics mirror the postgres adapter,
// including atomic multi-row postings, so service tests and demos can run
// without a database.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type Store struct {
	mu sync.Mutex

	accounts         map[int64]domain.Account
	accountsByNumber map[string]int64
	transactions     map[int64]domain.Transaction
	loans            map[int64]domain.Loan

	nextAccountID     int64
	nextTransactionID int64
	nextLoanID        int64
}

func NewStore() *Store {
	return &Store{
		accounts:         make(map[int64]domain.Account),
		accountsByNumber: make(map[string]int64),
		transactions:     make(map[int64]domain.Transaction),
		loans:            make(map[int64]domain.Loan),
	}
}

func (s *Store) now() time.Time {
	return time.Now().UTC()
}

// accountsNewestFirst returns a snapshot sorted the way the postgres
// adapter orders listings.
func (s *Store) accountsNewestFirst() []domain.Account {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
		}
		return accounts[i].ID > accounts[j].ID
	})
	return accounts
}

func (s *Store) transactionsNewestFirst() []domain.Transaction {
	transactions := make([]domain.Transaction, 0, len(s.transactions))
	for _, transaction := range s.transactions {
		transactions = append(transactions, transaction)
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].CreatedAt.Equal(transactions[j].CreatedAt) {
			return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions
}

func (s *Store) loansNewestFirst() []domain.Loan {
	loans := make([]domain.Loan, 0, len(s.loans))
	for _, loan := range s.loans {
		loans = append(loans, loan)
	}
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].AppliedAt.Equal(loans[j].AppliedAt) {
			return loans[i].AppliedAt.After(loans[j].AppliedAt)
		}
		return loans[i].ID > loans[j].ID
	})
	return loans
}

func (s *Store) insertTransaction(transaction domain.Transaction) domain.Transaction {
	s.nextTransactionID++
	transaction.ID = s.nextTransactionID
	transaction.CreatedAt = s.now()
	s.transactions[transaction.ID] = transaction
	return transaction
}

// deleteAccountCascade removes an account along with its transactions and
// loans, the way the postgres foreign keys cascade.
func (s *Store) deleteAccountCascade(id int64) {
	account, ok := s.accounts[id]
	if !ok {
		return
	}

	delete(s.accountsByNumber, account.AccountNumber)
	delete(s.accounts, id)

	for transactionID, transaction := range s.transactions {
		if transaction.AccountID == id {
			delete(s.transactions, transactionID)
			continue
		}
		changed := false
		if transaction.RelatedAccountID != nil && *transaction.RelatedAccountID == id {
			transaction.RelatedAccountID = nil
			changed = true
		}
		if transaction.RelatedTransactionID != nil {
			if related, ok := s.transactions[*transaction.RelatedTransactionID]; !ok || related.AccountID == id {
				transaction.RelatedTransactionID = nil
				changed = true
			}
		}
		if changed {
			s.transactions[transactionID] = transaction
		}
	}

	for loanID, loan := range s.loans {
		if loan.AccountID == id {
			delete(s.loans, loanID)
		}
	}
}
