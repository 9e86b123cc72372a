package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saeedahmed725/banking-system/internal/commons"
	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
	"github.com/saeedahmed725/banking-system/internal/models"
	"github.com/saeedahmed725/banking-system/internal/usecase/service_interfaces"
)

type LoanService struct {
	loanRepo        domain.LoanRepository
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	ledgerService   service_interfaces.LedgerService
	now             func() time.Time
}

func NewLoanService(
	loanRepo domain.LoanRepository,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	ledgerService service_interfaces.LedgerService,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledgerService:   ledgerService,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used for loan start and end dates.
// Deterministic tests inject a fixed clock here.
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

func (s *LoanService) ApplyForLoan(ctx context.Context, req models.ApplyLoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service apply request", logger.Fields{
		"accountId":    req.AccountID,
		"amount":       req.Amount,
		"interestRate": req.InterestRate,
		"termMonths":   req.TermMonths,
	})

	if err := req.Validate(); err != nil {
		logger.Error("loan service apply validation failed", err, nil)
		return commons.ErrorResponse[models.LoanResponse](err, "validation failed", err.Error()), err
	}

	if _, err := s.accountRepo.GetByID(ctx, req.AccountID); err != nil {
		logger.Error("loan service apply account lookup failed", err, logger.Fields{"accountId": req.AccountID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to apply for loan", err.Error()), err
	}

	principal := req.Amount.Round(2)
	created, err := s.loanRepo.Create(ctx, domain.Loan{
		AccountID:    req.AccountID,
		Principal:    principal,
		InterestRate: req.InterestRate,
		TermMonths:   req.TermMonths,
		Remaining:    principal,
		Status:       domain.LoanStatusPending,
	})
	if err != nil {
		logger.Error("loan service apply create failed", err, logger.Fields{"accountId": req.AccountID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to apply for loan", err.Error()), err
	}

	logger.Info("loan service apply success", logger.Fields{
		"loanId":    created.ID,
		"accountId": created.AccountID,
	})

	return commons.SuccessResponse("loan application submitted successfully", loanResponse(created)), nil
}

// ApproveLoan activates a pending loan and disburses the principal. The end
// date lands term months after approval, with the day clamped to the last
// day of the target month.
func (s *LoanService) ApproveLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service approve request", logger.Fields{"loanId": loanID})

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		logger.Error("loan service approve lookup failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to approve loan", err.Error()), err
	}

	if loan.Status != domain.LoanStatusPending {
		err := fmt.Errorf("cannot approve loan %d in status %s: %w", loanID, loan.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse](err, "failed to approve loan", err.Error()), err
	}

	startedAt := s.now()
	endedAt := addMonths(startedAt, loan.TermMonths)

	result, err := s.ledgerService.DisburseLoan(ctx, loanID, startedAt, endedAt)
	if err != nil {
		logger.Error("loan service approve disbursement failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to approve loan", err.Error()), err
	}

	logger.Info("loan service approve success", logger.Fields{
		"loanId":        loanID,
		"accountId":     result.Loan.AccountID,
		"transactionId": result.Transaction.ID,
	})

	return commons.SuccessResponse("loan approved successfully", loanResponse(result.Loan)), nil
}

func (s *LoanService) RejectLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service reject request", logger.Fields{"loanId": loanID})

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		logger.Error("loan service reject lookup failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to reject loan", err.Error()), err
	}

	if !loan.Status.CanTransitionTo(domain.LoanStatusRejected) {
		err := fmt.Errorf("cannot reject loan %d in status %s: %w", loanID, loan.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse](err, "failed to reject loan", err.Error()), err
	}

	updated, err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusRejected)
	if err != nil {
		logger.Error("loan service reject update failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to reject loan", err.Error()), err
	}

	return commons.SuccessResponse("loan rejected successfully", loanResponse(updated)), nil
}

func (s *LoanService) MakePayment(ctx context.Context, req models.LoanPaymentRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service payment request", logger.Fields{
		"loanId": req.LoanID,
		"amount": req.Amount,
	})

	if err := req.Validate(); err != nil {
		logger.Error("loan service payment validation failed", err, nil)
		return commons.ErrorResponse[models.LoanResponse](err, "validation failed", err.Error()), err
	}

	loan, err := s.loanRepo.GetByID(ctx, req.LoanID)
	if err != nil {
		logger.Error("loan service payment lookup failed", err, logger.Fields{"loanId": req.LoanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to make payment", err.Error()), err
	}

	if loan.Status != domain.LoanStatusActive {
		err := fmt.Errorf("cannot pay loan %d in status %s: %w", req.LoanID, loan.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse](err, "failed to make payment", err.Error()), err
	}

	amount := req.Amount.Round(2)
	if amount.GreaterThan(loan.Remaining) {
		err := fmt.Errorf("payment %s exceeds remaining loan balance %s: %w",
			amount.StringFixed(2), loan.Remaining.StringFixed(2), domain.ErrValidation)
		return commons.ErrorResponse[models.LoanResponse](err, "failed to make payment", err.Error()), err
	}

	result, err := s.ledgerService.CollectLoanPayment(ctx, req.LoanID, amount)
	if err != nil {
		logger.Error("loan service payment posting failed", err, logger.Fields{"loanId": req.LoanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to make payment", err.Error()), err
	}

	logger.Info("loan service payment success", logger.Fields{
		"loanId":    req.LoanID,
		"remaining": result.Loan.Remaining,
		"status":    result.Loan.Status,
	})

	return commons.SuccessResponse("payment applied successfully", loanResponse(result.Loan)), nil
}

// MarkDefaulted is the administrative write-off transition for active loans.
// No money moves; the remaining amount stays on the loan record.
func (s *LoanService) MarkDefaulted(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service mark defaulted request", logger.Fields{"loanId": loanID})

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		logger.Error("loan service mark defaulted lookup failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to mark loan defaulted", err.Error()), err
	}

	if !loan.Status.CanTransitionTo(domain.LoanStatusDefaulted) {
		err := fmt.Errorf("cannot default loan %d in status %s: %w", loanID, loan.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse](err, "failed to mark loan defaulted", err.Error()), err
	}

	updated, err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusDefaulted)
	if err != nil {
		logger.Error("loan service mark defaulted update failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to mark loan defaulted", err.Error()), err
	}

	return commons.SuccessResponse("loan marked defaulted", loanResponse(updated)), nil
}

func (s *LoanService) GetLoan(ctx context.Context, loanID int64) (commons.Response[models.LoanResponse], error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		logger.Error("loan service get loan failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanResponse](err, "failed to fetch loan", err.Error()), err
	}

	return commons.SuccessResponse("loan fetched successfully", loanResponse(loan)), nil
}

func (s *LoanService) ListAccountLoans(ctx context.Context, accountID int64) (commons.Response[[]models.LoanResponse], error) {
	if accountID <= 0 {
		err := fmt.Errorf("accountId is required: %w", domain.ErrValidation)
		return commons.ErrorResponse[[]models.LoanResponse](err, "validation failed", err.Error()), err
	}

	loans, err := s.loanRepo.ListForAccount(ctx, accountID)
	if err != nil {
		logger.Error("loan service list account loans failed", err, logger.Fields{"accountId": accountID})
		return commons.ErrorResponse[[]models.LoanResponse](err, "failed to list loans", err.Error()), err
	}

	return commons.SuccessResponse("loans listed successfully", loanResponses(loans)), nil
}

func (s *LoanService) ListLoans(ctx context.Context, status string) (commons.Response[[]models.LoanResponse], error) {
	if status != "" && !domain.LoanStatus(status).Valid() {
		err := fmt.Errorf("status %q is not one of %v: %w", status, domain.ValidLoanStatuses(), domain.ErrValidation)
		return commons.ErrorResponse[[]models.LoanResponse](err, "validation failed", err.Error()), err
	}

	loans, err := s.loanRepo.List(ctx, domain.LoanStatus(status))
	if err != nil {
		logger.Error("loan service list loans failed", err, logger.Fields{"status": status})
		return commons.ErrorResponse[[]models.LoanResponse](err, "failed to list loans", err.Error()), err
	}

	return commons.SuccessResponse("loans listed successfully", loanResponses(loans)), nil
}

// MonthlyPayment computes the level payment for the given terms using the
// standard amortization formula PMT = P*r*(1+r)^n / ((1+r)^n - 1), where r
// is the monthly rate. A zero rate degenerates to principal/term.
func (s *LoanService) MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, fmt.Errorf("loan amount must be positive: %w", domain.ErrValidation)
	}
	if annualRate.IsNegative() || annualRate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("interest rate must be between 0 and 100: %w", domain.ErrValidation)
	}
	if termMonths <= 0 {
		return decimal.Zero, fmt.Errorf("loan term must be positive: %w", domain.ErrValidation)
	}

	return monthlyPayment(principal, annualRate, termMonths), nil
}

func (s *LoanService) LoanSummary(ctx context.Context, loanID int64) (commons.Response[models.LoanSummaryResponse], error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		logger.Error("loan service summary lookup failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanSummaryResponse](err, "failed to build loan summary", err.Error()), err
	}

	account, err := s.accountRepo.GetByID(ctx, loan.AccountID)
	if err != nil {
		logger.Error("loan service summary account lookup failed", err, logger.Fields{"accountId": loan.AccountID})
		return commons.ErrorResponse[models.LoanSummaryResponse](err, "failed to build loan summary", err.Error()), err
	}

	monthly := monthlyPayment(loan.Principal, loan.InterestRate, loan.TermMonths)
	totalPayments := monthly.Mul(decimal.NewFromInt(int64(loan.TermMonths)))
	totalInterest := totalPayments.Sub(loan.Principal)

	paymentDescription := loanPaymentDescription(loanID)
	payments, err := s.transactionRepo.Search(ctx, domain.TransactionFilter{
		AccountID:           &loan.AccountID,
		Type:                domain.TransactionTypeLoanPayment,
		DescriptionContains: paymentDescription,
	})
	if err != nil {
		logger.Error("loan service summary payment search failed", err, logger.Fields{"loanId": loanID})
		return commons.ErrorResponse[models.LoanSummaryResponse](err, "failed to build loan summary", err.Error()), err
	}

	// Substring search on "loan #1" would also pick up loans #10 through #19;
	// keep only entries carrying this loan's exact posting label.
	matched := payments[:0]
	for _, payment := range payments {
		if payment.Description == paymentDescription {
			matched = append(matched, payment)
		}
	}
	payments = matched

	response := models.LoanSummaryResponse{
		Loan:            loanResponse(loan),
		Account:         accountResponse(account),
		MonthlyPayment:  monthly,
		TotalPayments:   totalPayments,
		TotalInterest:   totalInterest,
		PaymentsMade:    transactionResponses(payments),
		PaymentSchedule: buildPaymentSchedule(loan.Principal, loan.InterestRate, loan.TermMonths, monthly),
	}

	return commons.SuccessResponse("loan summary built successfully", response), nil
}

func monthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(termMonths))
	monthlyRate := annualRate.Div(decimal.NewFromInt(1200))
	if monthlyRate.IsZero() {
		return principal.Div(months)
	}

	one := decimal.NewFromInt(1)
	factor := one.Add(monthlyRate).Pow(months)
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one))
}

// buildPaymentSchedule amortizes month by month. The final month pays off
// whatever principal is left, absorbing the rounding drift of the level
// payment, so scheduled principal always sums to the loan amount exactly.
func buildPaymentSchedule(principal, annualRate decimal.Decimal, termMonths int, monthly decimal.Decimal) []models.ScheduleEntryResponse {
	monthlyRate := annualRate.Div(decimal.NewFromInt(1200))
	schedule := make([]models.ScheduleEntryResponse, 0, termMonths)
	remaining := principal

	for month := 1; month <= termMonths; month++ {
		interest := remaining.Mul(monthlyRate)
		principalPayment := monthly.Sub(interest)
		payment := monthly

		if month == termMonths {
			principalPayment = remaining
			payment = principalPayment.Add(interest)
			remaining = decimal.Zero
		} else {
			remaining = remaining.Sub(principalPayment)
			if remaining.IsNegative() {
				remaining = decimal.Zero
			}
		}

		schedule = append(schedule, models.ScheduleEntryResponse{
			Month:            month,
			PaymentAmount:    payment,
			PrincipalPayment: principalPayment,
			InterestPayment:  interest,
			RemainingBalance: remaining,
		})
	}

	return schedule
}

// addMonths rolls the calendar forward whole months, clamping the day to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) + months
	targetYear := year + (total-1)/12
	targetMonth := time.Month((total-1)%12 + 1)

	lastDay := time.Date(targetYear, targetMonth+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
