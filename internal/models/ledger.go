package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type DepositRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r DepositRequest) Validate() error {
	if r.AccountID <= 0 {
		return fmt.Errorf("accountId is required: %w", domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type WithdrawRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r WithdrawRequest) Validate() error {
	if r.AccountID <= 0 {
		return fmt.Errorf("accountId is required: %w", domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("withdrawal amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	if r.FromAccountID <= 0 || r.ToAccountID <= 0 {
		return fmt.Errorf("fromAccountId and toAccountId are required: %w", domain.ErrValidation)
	}
	if r.FromAccountID == r.ToAccountID {
		return fmt.Errorf("cannot transfer from an account to itself: %w", domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("transfer amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type PostingResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

type TransferResponse struct {
	OutTransaction TransactionResponse `json:"outTransaction"`
	InTransaction  TransactionResponse `json:"inTransaction"`
	FromBalance    decimal.Decimal     `json:"fromBalance"`
	ToBalance      decimal.Decimal     `json:"toBalance"`
}
