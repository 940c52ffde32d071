package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/database"
)

type txContextKey struct{}

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txContextKey{}, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

type txRunner struct {
	db *database.DB
}

func NewTxRunner(db *database.DB) payroll.TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, fn)
}

// GetQuerier returns the ambient transaction when ctx carries one, otherwise
// the pool. Lets repositories run the same queries in either mode.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
