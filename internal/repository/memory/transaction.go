package memory

import (
	"context"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
)

type txRunner struct{}

// NewTxRunner returns a pass-through runner. The in-memory store has no
// transactions; callers get atomicity from the per-employee lock instead.
func NewTxRunner() payroll.TxRunner {
	return txRunner{}
}

func (txRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
