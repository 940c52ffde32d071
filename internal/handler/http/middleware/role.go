package middleware

import (
	"net/http"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/handler/http/response"
)

// PayrollRole rejects callers the authorizer does not clear for payroll
// mutations. The services run the same check, so a handler wired without
// this middleware still cannot mutate anything.
func PayrollRole(a authz.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			if !a.CanPerformPayroll(r.Context()) {
				response.HandleError(w, authz.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
