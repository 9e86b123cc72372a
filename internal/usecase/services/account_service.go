package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
	"github.com/saeedahmed725/banking-system/internal/models"
)

const (
	defaultBranchCode       = "52"
	createAccountMaxRetries = 5
)

type AccountService struct {
	accountRepo domain.AccountRepository
	branchCode  string
}

// NewAccountService wires the registry. branchCode prefixes every generated
// account number; blank falls back to "52".
func NewAccountService(accountRepo domain.AccountRepository, branchCode string) *AccountService {
	branchCode = strings.TrimSpace(branchCode)
	if branchCode == "" {
		branchCode = defaultBranchCode
	}
	return &AccountService{accountRepo: accountRepo, branchCode: branchCode}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse](err, "validation failed", err.Error()), err
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = req.InitialBalance.Round(2)
	}

	account := domain.Account{
		OwnerName:   strings.TrimSpace(req.OwnerName),
		Type:        domain.AccountType(req.AccountType),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Balance:     balance,
	}

	var created domain.Account
	var err error
	for attempt := 1; attempt <= createAccountMaxRetries; attempt++ {
		account.AccountNumber = s.generateAccountNumber()
		created, err = s.accountRepo.Create(ctx, account)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			logger.Error("account service create account repository failed", err, logger.Fields{
				"ownerName": account.OwnerName,
			})
			wrapped := fmt.Errorf("create account: %w: %w", domain.ErrStore, err)
			return commons.ErrorResponse[models.AccountResponse](wrapped, "failed to create account", "Unable to create account right now"), wrapped
		}
		logger.Info("account service create account number collision, retrying", logger.Fields{
			"attempt":       attempt,
			"accountNumber": account.AccountNumber,
		})
	}
	if err != nil {
		wrapped := fmt.Errorf("create account: exhausted account number retries: %w: %w", domain.ErrStore, err)
		return commons.ErrorResponse[models.AccountResponse](wrapped, "failed to create account", "Unable to allocate an account number"), wrapped
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
	})

	return commons.SuccessResponse("account created successfully", accountResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("account service get account failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](err, "failed to fetch account", err.Error()), err
	}

	return commons.SuccessResponse("account fetched successfully", accountResponse(account)), nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		err := fmt.Errorf("accountNumber is required: %w", domain.ErrValidation)
		return commons.ErrorResponse[models.AccountResponse](err, "validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service get account by number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return commons.ErrorResponse[models.AccountResponse](err, "failed to fetch account", err.Error()), err
	}

	return commons.SuccessResponse("account fetched successfully", accountResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		logger.Error("account service list accounts failed", err, nil)
		return commons.ErrorResponse[[]models.AccountResponse](err, "failed to list accounts", err.Error()), err
	}

	return commons.SuccessResponse("accounts listed successfully", accountResponses(accounts)), nil
}

func (s *AccountService) SearchAccounts(ctx context.Context, filter domain.AccountFilter) (commons.Response[[]models.AccountResponse], error) {
	if filter.MinBalance != nil && filter.MaxBalance != nil && filter.MinBalance.GreaterThan(*filter.MaxBalance) {
		err := fmt.Errorf("minBalance exceeds maxBalance: %w", domain.ErrValidation)
		return commons.ErrorResponse[[]models.AccountResponse](err, "validation failed", err.Error()), err
	}

	accounts, err := s.accountRepo.Search(ctx, filter)
	if err != nil {
		logger.Error("account service search accounts failed", err, nil)
		return commons.ErrorResponse[[]models.AccountResponse](err, "failed to search accounts", err.Error()), err
	}

	return commons.SuccessResponse("accounts searched successfully", accountResponses(accounts)), nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, id int64, req models.UpdateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service update account request", logger.Fields{
		"accountId": id,
		"payload":   logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service update account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse](err, "validation failed", err.Error()), err
	}

	update := domain.AccountUpdate{
		OwnerName:   req.OwnerName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if req.AccountType != nil {
		accountType := domain.AccountType(*req.AccountType)
		update.Type = &accountType
	}

	updated, err := s.accountRepo.Update(ctx, id, update)
	if err != nil {
		logger.Error("account service update account failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](err, "failed to update account", err.Error()), err
	}

	return commons.SuccessResponse("account updated successfully", accountResponse(updated)), nil
}

// UpdateBalance overwrites the stored balance directly. Money movement goes
// through the ledger service; this exists for administrative corrections.
func (s *AccountService) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (commons.Response[models.AccountResponse], error) {
	if balance.IsNegative() {
		err := fmt.Errorf("balance must not be negative: %w", domain.ErrValidation)
		return commons.ErrorResponse[models.AccountResponse](err, "validation failed", err.Error()), err
	}

	updated, err := s.accountRepo.UpdateBalance(ctx, id, balance.Round(2))
	if err != nil {
		logger.Error("account service update balance failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](err, "failed to update balance", err.Error()), err
	}

	logger.Info("account service update balance success", logger.Fields{
		"accountId": id,
		"balance":   updated.Balance,
	})

	return commons.SuccessResponse("balance updated successfully", accountResponse(updated)), nil
}

func (s *AccountService) CloseAccount(ctx context.Context, id int64) (commons.Response[models.CloseAccountResponse], error) {
	logger.Info("account service close account request", logger.Fields{"accountId": id})

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("account service close account fetch failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.CloseAccountResponse](err, "failed to close account", err.Error()), err
	}

	if !account.Balance.IsZero() {
		err := fmt.Errorf("account %d balance is %s, withdraw or transfer it before closing: %w",
			id, account.Balance.StringFixed(2), domain.ErrPreconditionFailed)
		return commons.ErrorResponse[models.CloseAccountResponse](err, "failed to close account", err.Error()), err
	}

	hasOpenLoans, err := s.accountRepo.HasOpenLoans(ctx, id)
	if err != nil {
		logger.Error("account service close account loan check failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.CloseAccountResponse](err, "failed to close account", err.Error()), err
	}
	if hasOpenLoans {
		err := fmt.Errorf("account %d has pending or active loans: %w", id, domain.ErrPreconditionFailed)
		return commons.ErrorResponse[models.CloseAccountResponse](err, "failed to close account", err.Error()), err
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		logger.Error("account service close account delete failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.CloseAccountResponse](err, "failed to close account", err.Error()), err
	}

	logger.Info("account service close account success", logger.Fields{"accountId": id})

	return commons.SuccessResponse("account closed successfully", models.CloseAccountResponse{
		AccountID: id,
		Closed:    true,
	}), nil
}

func (s *AccountService) AccountSummary(ctx context.Context, id int64) (commons.Response[models.AccountSummaryResponse], error) {
	summary, err := s.accountRepo.Summary(ctx, id)
	if err != nil {
		logger.Error("account service summary failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountSummaryResponse](err, "failed to build account summary", err.Error()), err
	}

	totals := make([]models.TransactionTypeTotalResponse, 0, len(summary.TransactionTotals))
	for _, total := range summary.TransactionTotals {
		totals = append(totals, models.TransactionTypeTotalResponse{
			TransactionType: string(total.Type),
			Count:           total.Count,
			Total:           total.Total,
		})
	}

	response := models.AccountSummaryResponse{
		Account:             accountResponse(summary.Account),
		TransactionTotals:   totals,
		RecentTransactions:  transactionResponses(summary.RecentTransactions),
		ActiveLoanCount:     summary.ActiveLoanCount,
		ActiveLoanRemaining: summary.ActiveLoanRemaining,
	}

	return commons.SuccessResponse("account summary built successfully", response), nil
}

var accountNumberCounter atomic.Uint64

// generateAccountNumber produces a candidate branch-prefixed 10 digit
// account number. Candidates are seeded from the clock and an in-process
// counter; the unique index on accounts.account_number is the real
// guarantee, and CreateAccount retries on collision.
func (s *AccountService) generateAccountNumber() string {
	seed := uint64(time.Now().UTC().UnixNano()/1000) % 100_000_000
	serial := (seed + accountNumberCounter.Add(1)) % 100_000_000
	return fmt.Sprintf("%s%08d", s.branchCode, serial)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, domain.ErrDuplicate)
}
