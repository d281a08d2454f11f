package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const (
	uniqueViolationCode      = "23505"
	foreignKeyViolationCode  = "23503"
	checkViolationCode       = "23514"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

type txContextKey struct{}

type TxOptions struct {
	MaxWait    time.Duration
	Timeout    time.Duration
	MaxRetries int
}

// TxManager runs units of work in pgx transactions with bounded wait and
// execution time. Serialization failures and deadlocks are retried.
type TxManager struct {
	pool database.Pool
	opts TxOptions
}

func NewTxManager(pool database.Pool, opts TxOptions) *TxManager {
	if opts.MaxWait <= 0 {
		opts.MaxWait = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &TxManager{pool: pool, opts: opts}
}

// WithTransaction executes fn inside a database transaction. A ctx that
// already carries a transaction is reused as is.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("transaction function is required")
	}
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.opts.MaxRetries; attempt++ {
		err = m.run(ctx, fn)
		if !isRetryable(err) {
			return err
		}
		slog.WarnContext(ctx, "Retrying transaction after conflict", "attempt", attempt+1, "error", err)
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	execCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	beginCtx, cancelBegin := context.WithTimeout(execCtx, m.opts.MaxWait)
	tx, err := m.pool.BeginTx(beginCtx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	beginErr := beginCtx.Err()
	cancelBegin()
	if err != nil {
		if errors.Is(beginErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: waiting to begin: %v", database.ErrTxTimeout, err)
		}
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				slog.Error("Rollback failed during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(contextWithTx(execCtx, tx)); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", database.ErrTxTimeout, err)
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(execCtx); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: commit: %v", database.ErrTxTimeout, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func contextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx, ok
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db database.Querier) database.Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
	}
	return false
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
