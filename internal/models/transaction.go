package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type RecordTransactionRequest struct {
	AccountID        int64           `json:"accountId"`
	TransactionType  string          `json:"transactionType"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	RelatedAccountID *int64          `json:"relatedAccountId,omitempty"`
}

func (r RecordTransactionRequest) Validate() error {
	if r.AccountID <= 0 {
		return fmt.Errorf("accountId is required: %w", domain.ErrValidation)
	}
	if !domain.TransactionType(r.TransactionType).Valid() {
		return fmt.Errorf("transactionType %q is not one of %v: %w",
			r.TransactionType, domain.ValidTransactionTypes(), domain.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

type TransactionResponse struct {
	ID                   int64           `json:"id"`
	AccountID            int64           `json:"accountId"`
	TransactionType      string          `json:"transactionType"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	Reference            string          `json:"reference"`
	RelatedAccountID     *int64          `json:"relatedAccountId,omitempty"`
	RelatedTransactionID *int64          `json:"relatedTransactionId,omitempty"`
	CreatedAt            string          `json:"createdAt"`
}

type TransactionStatsResponse struct {
	TransactionType string          `json:"transactionType"`
	Count           int64           `json:"count"`
	Total           decimal.Decimal `json:"total"`
	Average         decimal.Decimal `json:"average"`
	Minimum         decimal.Decimal `json:"minimum"`
	Maximum         decimal.Decimal `json:"maximum"`
}
