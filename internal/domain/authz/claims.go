package authz

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

// payrollRoles are the JWT roles allowed to run payroll mutations.
var payrollRoles = map[string]bool{
	"owner":   true,
	"manager": true,
}

// ClaimsAuthorizer reads the verified JWT claims from the request context.
type ClaimsAuthorizer struct{}

func NewClaimsAuthorizer() ClaimsAuthorizer {
	return ClaimsAuthorizer{}
}

func (ClaimsAuthorizer) CanPerformPayroll(ctx context.Context) bool {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return false
	}

	role, ok := claims["role"].(string)
	if !ok {
		return false
	}

	return payrollRoles[role]
}

// AllowAll authorizes everything. Used with STORE_TYPE=memory and in tests.
type AllowAll struct{}

func (AllowAll) CanPerformPayroll(ctx context.Context) bool {
	return true
}
