package main

import (
	"context"
	"database/sql"
	"time"

	subscriptionservice "bulletin/internal/subscription/service"
	subscriptionstore "bulletin/internal/subscription/store"
	dErrors "bulletin/pkg/domain-errors"
)

const defaultSubscriptionTxTimeout = 30 * time.Second

// subscriptionPostgresTx runs the registration write inside one Postgres
// transaction. The deferred Rollback is the safety net for every early exit,
// including cancellation: a transaction that did not commit leaves no trace.
type subscriptionPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newSubscriptionPostgresTx(db *sql.DB) *subscriptionPostgresTx {
	return &subscriptionPostgresTx{db: db}
}

func (t *subscriptionPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store subscriptionservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultSubscriptionTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, subscriptionstore.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
