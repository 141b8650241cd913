// Package tx carries a SQL transaction through context so an aggregate save
// and its outbox append can share one transaction without the stores knowing
// about each other.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Execer is the subset of database/sql shared by *sql.DB and *sql.Tx that
// stores need for writes.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor returns the transaction from context when present, otherwise db.
func Executor(ctx context.Context, db *sql.DB) Execer {
	if t, ok := From(ctx); ok {
		return t
	}
	return db
}

// Runner scopes a unit of work. Services use it to bind an aggregate write
// and its outbox append into one atomic step without importing database/sql.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs units of work inside database/sql transactions.
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.DB, fn)
}

// InlineRunner executes the unit of work directly. Memory stores have no
// transactions; tests use this.
type InlineRunner struct{}

func (InlineRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Run executes fn inside a transaction, committing on success and rolling
// back on error. The transaction is injected into the context passed to fn.
func Run(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(WithTx(ctx, t)); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
