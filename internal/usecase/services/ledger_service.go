package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
	"github.com/saeedahmed725/banking-system/internal/models"
)

// LedgerService is the money movement engine. Every operation delegates to a
// single atomic posting on the ledger repository, so a failure anywhere
// leaves both balances and the journal untouched.
type LedgerService struct {
	ledgerRepo domain.LedgerRepository
}

func NewLedgerService(ledgerRepo domain.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

func (s *LedgerService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.PostingResponse], error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"accountId": req.AccountID,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.PostingResponse](err, "validation failed", err.Error()), err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = domain.TransactionTypeDeposit.DefaultDescription()
	}

	result, err := s.ledgerRepo.PostDeposit(ctx, req.AccountID, req.Amount.Round(2), description)
	if err != nil {
		logger.Error("ledger service deposit posting failed", err, logger.Fields{
			"accountId": req.AccountID,
		})
		return commons.ErrorResponse[models.PostingResponse](err, "failed to deposit", err.Error()), err
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"accountId":     req.AccountID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})

	return commons.SuccessResponse("deposit completed successfully", models.PostingResponse{
		Transaction: transactionResponse(result.Transaction),
		NewBalance:  result.NewBalance,
	}), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.PostingResponse], error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"accountId": req.AccountID,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.PostingResponse](err, "validation failed", err.Error()), err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = domain.TransactionTypeWithdrawal.DefaultDescription()
	}

	result, err := s.ledgerRepo.PostWithdrawal(ctx, req.AccountID, req.Amount.Round(2), description)
	if err != nil {
		logger.Error("ledger service withdraw posting failed", err, logger.Fields{
			"accountId": req.AccountID,
		})
		return commons.ErrorResponse[models.PostingResponse](err, "failed to withdraw", err.Error()), err
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"accountId":     req.AccountID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})

	return commons.SuccessResponse("withdrawal completed successfully", models.PostingResponse{
		Transaction: transactionResponse(result.Transaction),
		NewBalance:  result.NewBalance,
	}), nil
}

func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"fromAccountId": req.FromAccountID,
		"toAccountId":   req.ToAccountID,
		"amount":        req.Amount,
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse](err, "validation failed", err.Error()), err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = fmt.Sprintf("Transfer between accounts %d and %d", req.FromAccountID, req.ToAccountID)
	}

	result, err := s.ledgerRepo.PostTransfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount.Round(2), description)
	if err != nil {
		logger.Error("ledger service transfer posting failed", err, logger.Fields{
			"fromAccountId": req.FromAccountID,
			"toAccountId":   req.ToAccountID,
		})
		return commons.ErrorResponse[models.TransferResponse](err, "failed to transfer", err.Error()), err
	}

	logger.Info("ledger service transfer success", logger.Fields{
		"outTransactionId": result.OutTransaction.ID,
		"inTransactionId":  result.InTransaction.ID,
		"fromBalance":      result.FromBalance,
		"toBalance":        result.ToBalance,
	})

	return commons.SuccessResponse("transfer completed successfully", models.TransferResponse{
		OutTransaction: transactionResponse(result.OutTransaction),
		InTransaction:  transactionResponse(result.InTransaction),
		FromBalance:    result.FromBalance,
		ToBalance:      result.ToBalance,
	}), nil
}

// DisburseLoan flips the loan to active and credits the principal to the
// borrowing account in one posting. Called by the loan engine on approval.
func (s *LedgerService) DisburseLoan(ctx context.Context, loanID int64, startedAt, endedAt time.Time) (domain.LoanPostingResult, error) {
	logger.Info("ledger service disburse loan request", logger.Fields{
		"loanId":    loanID,
		"startedAt": startedAt,
		"endedAt":   endedAt,
	})

	description := fmt.Sprintf("Loan disbursement for loan #%d", loanID)
	result, err := s.ledgerRepo.PostLoanDisbursement(ctx, loanID, startedAt, endedAt, description)
	if err != nil {
		logger.Error("ledger service disburse loan posting failed", err, logger.Fields{"loanId": loanID})
		return domain.LoanPostingResult{}, err
	}

	logger.Info("ledger service disburse loan success", logger.Fields{
		"loanId":        loanID,
		"transactionId": result.Transaction.ID,
		"newBalance":    result.NewBalance,
	})

	return result, nil
}

// loanPaymentDescription labels every loan payment posting. The loan engine
// matches on it verbatim when collecting a loan's payment history.
func loanPaymentDescription(loanID int64) string {
	return fmt.Sprintf("Loan payment for loan #%d", loanID)
}

// CollectLoanPayment debits the borrowing account and pays down the loan in
// one posting, flipping the loan to paid when the remainder reaches zero.
func (s *LedgerService) CollectLoanPayment(ctx context.Context, loanID int64, amount decimal.Decimal) (domain.LoanPostingResult, error) {
	logger.Info("ledger service collect loan payment request", logger.Fields{
		"loanId": loanID,
		"amount": amount,
	})

	result, err := s.ledgerRepo.PostLoanPayment(ctx, loanID, amount.Round(2), loanPaymentDescription(loanID))
	if err != nil {
		logger.Error("ledger service collect loan payment posting failed", err, logger.Fields{"loanId": loanID})
		return domain.LoanPostingResult{}, err
	}

	logger.Info("ledger service collect loan payment success", logger.Fields{
		"loanId":        loanID,
		"transactionId": result.Transaction.ID,
		"loanStatus":    result.Loan.Status,
		"remaining":     result.Loan.Remaining,
	})

	return result, nil
}
