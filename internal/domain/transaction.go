package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeTransferIn       TransactionType = "transfer_in"
	TransactionTypeTransferOut      TransactionType = "transfer_out"
	TransactionTypeLoanDisbursement TransactionType = "loan_disbursement"
	TransactionTypeLoanPayment      TransactionType = "loan_payment"
)

func ValidTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeTransferIn,
		TransactionTypeTransferOut,
		TransactionTypeLoanDisbursement,
		TransactionTypeLoanPayment,
	}
}

func (t TransactionType) Valid() bool {
	for _, valid := range ValidTransactionTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// DefaultDescription renders the type as a human-readable fallback
// description, e.g. "Transfer out" for transfer_out.
func (t TransactionType) DefaultDescription() string {
	words := strings.ReplaceAll(string(t), "_", " ")
	if words == "" {
		return ""
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

// Transaction is an immutable journal entry. Rows are append-only and are
// removed only by the cascade of an account deletion.
type Transaction struct {
	ID                   int64
	AccountID            int64
	Type                 TransactionType
	Amount               decimal.Decimal
	Description          string
	Reference            string
	RelatedAccountID     *int64
	RelatedTransactionID *int64
	CreatedAt            time.Time
}

// TransactionFilter criteria are AND-combined; zero values mean "not set".
type TransactionFilter struct {
	AccountID           *int64
	Type                TransactionType
	MinAmount           *decimal.Decimal
	MaxAmount           *decimal.Decimal
	StartDate           *time.Time
	EndDate             *time.Time
	DescriptionContains string
	Limit               int
	Offset              int
}

type TransactionStats struct {
	Type    TransactionType
	Count   int64
	Total   decimal.Decimal
	Average decimal.Decimal
	Minimum decimal.Decimal
	Maximum decimal.Decimal
}
