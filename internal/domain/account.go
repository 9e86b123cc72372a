package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking             AccountType = "checking"
	AccountTypeSavings              AccountType = "savings"
	AccountTypeBusiness             AccountType = "business"
	AccountTypeLoan                 AccountType = "loan"
	AccountTypeMoneyMarket          AccountType = "money_market"
	AccountTypeCertificateOfDeposit AccountType = "certificate_of_deposit"
)

func ValidAccountTypes() []AccountType {
	return []AccountType{
		AccountTypeChecking,
		AccountTypeSavings,
		AccountTypeBusiness,
		AccountTypeLoan,
		AccountTypeMoneyMarket,
		AccountTypeCertificateOfDeposit,
	}
}

func (t AccountType) Valid() bool {
	for _, valid := range ValidAccountTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

type Account struct {
	ID            int64
	AccountNumber string
	OwnerName     string
	Type          AccountType
	Email         *string
	PhoneNumber   *string
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountFilter criteria are AND-combined; zero values mean "not set".
type AccountFilter struct {
	OwnerNameContains string
	Type              AccountType
	EmailContains     string
	MinBalance        *decimal.Decimal
	MaxBalance        *decimal.Decimal
	CreatedAfter      *time.Time
	CreatedBefore     *time.Time
}

// AccountUpdate carries the mutable account fields; nil fields are left untouched.
type AccountUpdate struct {
	OwnerName   *string
	Email       *string
	PhoneNumber *string
	Type        *AccountType
}

type TransactionTypeTotal struct {
	Type  TransactionType
	Count int64
	Total decimal.Decimal
}

type AccountSummary struct {
	Account             Account
	TransactionTotals   []TransactionTypeTotal
	RecentTransactions  []Transaction
	ActiveLoanCount     int64
	ActiveLoanRemaining decimal.Decimal
}
