package services

import (
	"time"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/models"
)

func accountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		OwnerName:     account.OwnerName,
		AccountType:   string(account.Type),
		Email:         account.Email,
		PhoneNumber:   account.PhoneNumber,
		Balance:       account.Balance,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}

func accountResponses(accounts []domain.Account) []models.AccountResponse {
	out := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, accountResponse(account))
	}
	return out
}

func transactionResponse(transaction domain.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		ID:                   transaction.ID,
		AccountID:            transaction.AccountID,
		TransactionType:      string(transaction.Type),
		Amount:               transaction.Amount,
		Description:          transaction.Description,
		Reference:            transaction.Reference,
		RelatedAccountID:     transaction.RelatedAccountID,
		RelatedTransactionID: transaction.RelatedTransactionID,
		CreatedAt:            transaction.CreatedAt.Format(time.RFC3339),
	}
}

func transactionResponses(transactions []domain.Transaction) []models.TransactionResponse {
	out := make([]models.TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, transactionResponse(transaction))
	}
	return out
}

func loanResponse(loan domain.Loan) models.LoanResponse {
	return models.LoanResponse{
		ID:            loan.ID,
		AccountID:     loan.AccountID,
		Principal:     loan.Principal,
		InterestRate:  loan.InterestRate,
		TermMonths:    loan.TermMonths,
		Remaining:     loan.Remaining,
		Status:        string(loan.Status),
		AppliedAt:     loan.AppliedAt.Format(time.RFC3339),
		StartedAt:     formatTimePtr(loan.StartedAt),
		EndedAt:       formatTimePtr(loan.EndedAt),
		LastPaymentAt: formatTimePtr(loan.LastPaymentAt),
	}
}

func loanResponses(loans []domain.Loan) []models.LoanResponse {
	out := make([]models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loanResponse(loan))
	}
	return out
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
