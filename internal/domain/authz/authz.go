package authz

import (
	"context"
	"errors"
)

// Authorizer answers whether the caller may perform payroll mutations.
// Authentication itself is the main app's concern; every mutating payroll
// operation asks this question first and fails with ErrPermissionDenied.
type Authorizer interface {
	CanPerformPayroll(ctx context.Context) bool
}

var ErrPermissionDenied = errors.New("caller is not allowed to perform payroll operations")
