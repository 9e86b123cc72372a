package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/domain"
)

type CreateAccountRequest struct {
	OwnerName      string           `json:"ownerName"`
	AccountType    string           `json:"accountType"`
	Email          *string          `json:"email,omitempty"`
	PhoneNumber    *string          `json:"phoneNumber,omitempty"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.OwnerName) == "" {
		return fmt.Errorf("ownerName is required: %w", domain.ErrValidation)
	}
	if !domain.AccountType(r.AccountType).Valid() {
		return fmt.Errorf("accountType %q is not one of %v: %w",
			r.AccountType, domain.ValidAccountTypes(), domain.ErrValidation)
	}
	if r.InitialBalance != nil && r.InitialBalance.IsNegative() {
		return fmt.Errorf("initialBalance must not be negative: %w", domain.ErrValidation)
	}
	return nil
}

type UpdateAccountRequest struct {
	OwnerName   *string `json:"ownerName,omitempty"`
	AccountType *string `json:"accountType,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

func (r UpdateAccountRequest) Validate() error {
	if r.OwnerName == nil && r.AccountType == nil && r.Email == nil && r.PhoneNumber == nil {
		return fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}
	if r.OwnerName != nil && strings.TrimSpace(*r.OwnerName) == "" {
		return fmt.Errorf("ownerName must not be blank: %w", domain.ErrValidation)
	}
	if r.AccountType != nil && !domain.AccountType(*r.AccountType).Valid() {
		return fmt.Errorf("accountType %q is not one of %v: %w",
			*r.AccountType, domain.ValidAccountTypes(), domain.ErrValidation)
	}
	return nil
}

type AccountResponse struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	OwnerName     string          `json:"ownerName"`
	AccountType   string          `json:"accountType"`
	Email         *string         `json:"email,omitempty"`
	PhoneNumber   *string         `json:"phoneNumber,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type TransactionTypeTotalResponse struct {
	TransactionType string          `json:"transactionType"`
	Count           int64           `json:"count"`
	Total           decimal.Decimal `json:"total"`
}

type AccountSummaryResponse struct {
	Account             AccountResponse                `json:"account"`
	TransactionTotals   []TransactionTypeTotalResponse `json:"transactionTotals"`
	RecentTransactions  []TransactionResponse          `json:"recentTransactions"`
	ActiveLoanCount     int64                          `json:"activeLoanCount"`
	ActiveLoanRemaining decimal.Decimal                `json:"activeLoanRemaining"`
}

type CloseAccountResponse struct {
	AccountID int64 `json:"accountId"`
	Closed    bool  `json:"closed"`
}
