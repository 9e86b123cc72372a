package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/saeedahmed725/banking-system/internal/domain"
	"github.com/saeedahmed725/banking-system/internal/logger"
)

// txMaxAttempts bounds transparent retries of postings that hit a
// serialization failure or deadlock before ErrStore surfaces to the caller.
const txMaxAttempts = 3

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err = runTx(ctx, db, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		logger.Info("ledger transaction conflict, retrying", logger.Fields{
			"attempt": attempt,
		})
	}

	return fmt.Errorf("ledger transaction conflict persisted: %w: %w", domain.ErrStore, err)
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w: %w", domain.ErrStore, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger transaction: %w: %w", domain.ErrStore, err)
	}

	return nil
}

func isRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "40001" || string(pqErr.Code) == "40P01"
	}
	return false
}

func storeError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, domain.ErrStore, err)
}
