package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saeedahmed725/banking-system/internal/adapter/repository/postgres"
	"github.com/saeedahmed725/banking-system/internal/config"
	"github.com/saeedahmed725/banking-system/internal/logger"
	"github.com/saeedahmed725/banking-system/internal/usecase/services"
)

const healthCheckInterval = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	logger.Info("migrations completed", nil)

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", err, nil)
		}
	}()

	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	loanRepo := postgres.NewLoanRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	accountService := services.NewAccountService(accountRepo, cfg.BranchCode)
	transactionService := services.NewTransactionService(transactionRepo)
	ledgerService := services.NewLedgerService(ledgerRepo)
	loanService := services.NewLoanService(loanRepo, accountRepo, transactionRepo, ledgerService)

	// Startup self-check: walk the service graph once so a broken schema or
	// connection fails loudly at boot instead of on the first operation.
	accounts, err := accountService.ListAccounts(ctx)
	if err != nil {
		log.Fatalf("account registry self-check: %v", err)
	}
	loans, err := loanService.ListLoans(ctx, "")
	if err != nil {
		log.Fatalf("loan engine self-check: %v", err)
	}
	stats, err := transactionService.TransactionStats(ctx, nil, nil, nil)
	if err != nil {
		log.Fatalf("transaction journal self-check: %v", err)
	}

	logger.Info("bank ledger core ready", logger.Fields{
		"accounts":         len(*accounts.Data),
		"loans":            len(*loans.Data),
		"transactionTypes": len(*stats.Data),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := db.PingContext(gctx); err != nil {
					logger.Error("database health check failed", err, nil)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown with error", err, nil)
	}
	logger.Info("bank ledger core stopped", nil)
}
