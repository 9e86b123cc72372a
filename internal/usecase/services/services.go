// Package services implements the account registry, transaction journal,
// money movement engine and loan engine on top of the repository interfaces.
package services

import "github.com/saeedahmed725/banking-system/internal/usecase/service_interfaces"

var (
	_ service_interfaces.AccountService     = (*AccountService)(nil)
	_ service_interfaces.TransactionService = (*TransactionService)(nil)
	_ service_interfaces.LedgerService      = (*LedgerService)(nil)
	_ service_interfaces.LoanService        = (*LoanService)(nil)
)
