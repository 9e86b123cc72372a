package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
)

// LedgerRepository posts money movements. Every posting runs inside one
// store transaction: the touched account rows are locked with
// SELECT ... FOR UPDATE before the balance is read, so two concurrent
// postings against the same account serialize instead of losing updates.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) PostDeposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (domain.PostingResult, error) {
	logger.Info("ledger repository post deposit", logger.Fields{
		"accountId": accountID,
		"amount":    amount,
	})

	var result domain.PostingResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		account, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Add(amount)
		if err := updateBalanceTx(ctx, tx, accountID, newBalance); err != nil {
			return err
		}

		transaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:   accountID,
			Type:        domain.TransactionTypeDeposit,
			Amount:      amount,
			Description: description,
			Reference:   uuid.NewString(),
		})
		if err != nil {
			return err
		}

		result = domain.PostingResult{Transaction: transaction, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		logger.Error("ledger repository post deposit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.PostingResult{}, err
	}

	logger.Info("ledger repository post deposit success", logger.Fields{
		"accountId":     accountID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})
	return result, nil
}

func (r *LedgerRepository) PostWithdrawal(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (domain.PostingResult, error) {
	logger.Info("ledger repository post withdrawal", logger.Fields{
		"accountId": accountID,
		"amount":    amount,
	})

	var result domain.PostingResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		account, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if account.Balance.LessThan(amount) {
			return fmt.Errorf("account %d balance %s below withdrawal %s: %w",
				accountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
		}

		newBalance := account.Balance.Sub(amount)
		if err := updateBalanceTx(ctx, tx, accountID, newBalance); err != nil {
			return err
		}

		transaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:   accountID,
			Type:        domain.TransactionTypeWithdrawal,
			Amount:      amount,
			Description: description,
			Reference:   uuid.NewString(),
		})
		if err != nil {
			return err
		}

		result = domain.PostingResult{Transaction: transaction, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		logger.Error("ledger repository post withdrawal failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.PostingResult{}, err
	}

	logger.Info("ledger repository post withdrawal success", logger.Fields{
		"accountId":     accountID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})
	return result, nil
}

func (r *LedgerRepository) PostTransfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, description string) (domain.TransferResult, error) {
	logger.Info("ledger repository post transfer", logger.Fields{
		"fromAccountId": fromAccountID,
		"toAccountId":   toAccountID,
		"amount":        amount,
	})

	var result domain.TransferResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock both rows in ascending id order regardless of transfer
		// direction so two opposing transfers cannot deadlock.
		firstID, secondID := fromAccountID, toAccountID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}

		locked := make(map[int64]domain.Account, 2)
		for _, id := range []int64{firstID, secondID} {
			account, err := lockAccount(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = account
		}

		fromAccount := locked[fromAccountID]
		toAccount := locked[toAccountID]

		if fromAccount.Balance.LessThan(amount) {
			return fmt.Errorf("account %d balance %s below transfer %s: %w",
				fromAccountID, fromAccount.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
		}

		fromBalance := fromAccount.Balance.Sub(amount)
		toBalance := toAccount.Balance.Add(amount)

		if err := updateBalanceTx(ctx, tx, fromAccountID, fromBalance); err != nil {
			return err
		}
		if err := updateBalanceTx(ctx, tx, toAccountID, toBalance); err != nil {
			return err
		}

		outTransaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:        fromAccountID,
			Type:             domain.TransactionTypeTransferOut,
			Amount:           amount,
			Description:      description,
			Reference:        uuid.NewString(),
			RelatedAccountID: &toAccountID,
		})
		if err != nil {
			return err
		}

		inTransaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:            toAccountID,
			Type:                 domain.TransactionTypeTransferIn,
			Amount:               amount,
			Description:          description,
			Reference:            uuid.NewString(),
			RelatedAccountID:     &fromAccountID,
			RelatedTransactionID: &outTransaction.ID,
		})
		if err != nil {
			return err
		}

		result = domain.TransferResult{
			OutTransaction: outTransaction,
			InTransaction:  inTransaction,
			FromBalance:    fromBalance,
			ToBalance:      toBalance,
		}
		return nil
	})
	if err != nil {
		logger.Error("ledger repository post transfer failed", err, logger.Fields{
			"fromAccountId": fromAccountID,
			"toAccountId":   toAccountID,
		})
		return domain.TransferResult{}, err
	}

	logger.Info("ledger repository post transfer success", logger.Fields{
		"fromAccountId":    fromAccountID,
		"toAccountId":      toAccountID,
		"outTransactionId": result.OutTransaction.ID,
		"inTransactionId":  result.InTransaction.ID,
	})
	return result, nil
}

func (r *LedgerRepository) PostLoanDisbursement(ctx context.Context, loanID int64, startedAt, endedAt time.Time, description string) (domain.LoanPostingResult, error) {
	logger.Info("ledger repository post loan disbursement", logger.Fields{
		"loanId": loanID,
	})

	var result domain.LoanPostingResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if loan.Status != domain.LoanStatusPending {
			return fmt.Errorf("loan %d status %s, expected pending: %w", loanID, loan.Status, domain.ErrInvalidState)
		}

		account, err := lockAccount(ctx, tx, loan.AccountID)
		if err != nil {
			return err
		}

		const query = `
UPDATE loans
SET status = 'active',
    started_at = $2,
    ended_at = $3
WHERE loan_id = $1
RETURNING ` + loanColumns

		updated, err := scanLoan(tx.QueryRowContext(ctx, query, loanID, startedAt, endedAt))
		if err != nil {
			return storeError("activate loan", err)
		}

		newBalance := account.Balance.Add(loan.Principal)
		if err := updateBalanceTx(ctx, tx, loan.AccountID, newBalance); err != nil {
			return err
		}

		transaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:   loan.AccountID,
			Type:        domain.TransactionTypeLoanDisbursement,
			Amount:      loan.Principal,
			Description: description,
			Reference:   uuid.NewString(),
		})
		if err != nil {
			return err
		}

		result = domain.LoanPostingResult{Loan: updated, Transaction: transaction, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		logger.Error("ledger repository post loan disbursement failed", err, logger.Fields{
			"loanId": loanID,
		})
		return domain.LoanPostingResult{}, err
	}

	logger.Info("ledger repository post loan disbursement success", logger.Fields{
		"loanId":        loanID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})
	return result, nil
}

func (r *LedgerRepository) PostLoanPayment(ctx context.Context, loanID int64, amount decimal.Decimal, description string) (domain.LoanPostingResult, error) {
	logger.Info("ledger repository post loan payment", logger.Fields{
		"loanId": loanID,
		"amount": amount,
	})

	var result domain.LoanPostingResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if loan.Status != domain.LoanStatusActive {
			return fmt.Errorf("loan %d status %s, expected active: %w", loanID, loan.Status, domain.ErrInvalidState)
		}
		if amount.GreaterThan(loan.Remaining) {
			return fmt.Errorf("payment %s exceeds remaining balance %s: %w",
				amount.StringFixed(2), loan.Remaining.StringFixed(2), domain.ErrValidation)
		}

		account, err := lockAccount(ctx, tx, loan.AccountID)
		if err != nil {
			return err
		}

		if account.Balance.LessThan(amount) {
			return fmt.Errorf("account %d balance %s below loan payment %s: %w",
				loan.AccountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientFunds)
		}

		newRemaining := loan.Remaining.Sub(amount)
		status := domain.LoanStatusActive
		if newRemaining.LessThanOrEqual(decimal.Zero) {
			newRemaining = decimal.Zero
			status = domain.LoanStatusPaid
		}

		const query = `
UPDATE loans
SET remaining_amount = $2,
    status = $3,
    last_payment_at = NOW()
WHERE loan_id = $1
RETURNING ` + loanColumns

		updated, err := scanLoan(tx.QueryRowContext(ctx, query, loanID, newRemaining, status))
		if err != nil {
			return storeError("apply loan payment", err)
		}

		newBalance := account.Balance.Sub(amount)
		if err := updateBalanceTx(ctx, tx, loan.AccountID, newBalance); err != nil {
			return err
		}

		transaction, err := insertTransactionTx(ctx, tx, domain.Transaction{
			AccountID:   loan.AccountID,
			Type:        domain.TransactionTypeLoanPayment,
			Amount:      amount,
			Description: description,
			Reference:   uuid.NewString(),
		})
		if err != nil {
			return err
		}

		result = domain.LoanPostingResult{Loan: updated, Transaction: transaction, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		logger.Error("ledger repository post loan payment failed", err, logger.Fields{
			"loanId": loanID,
		})
		return domain.LoanPostingResult{}, err
	}

	logger.Info("ledger repository post loan payment success", logger.Fields{
		"loanId":        loanID,
		"transactionId": result.Transaction.ID,
		"loanStatus":    result.Loan.Status,
		"remaining":     result.Loan.Remaining,
	})
	return result, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE`

	account, err := scanAccount(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		return domain.Account{}, storeError("lock account row", err)
	}

	return account, nil
}

func lockLoan(ctx context.Context, tx *sql.Tx, id int64) (domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE`

	loan, err := scanLoan(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
		}
		return domain.Loan{}, storeError("lock loan row", err)
	}

	return loan, nil
}

func updateBalanceTx(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal) error {
	const query = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE account_id = $1`

	result, err := tx.ExecContext(ctx, query, id, balance)
	if err != nil {
		return storeError("update balance", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeError("update balance rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, transaction domain.Transaction) (domain.Transaction, error) {
	if err := tx.QueryRowContext(
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
		return domain.Transaction{}, storeError("insert journal entry", err)
	}

	return transaction, nil
}
