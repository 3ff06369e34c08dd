package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/handler/http/response"
)

func claimedRole(r *http.Request) (employee.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	role := employee.Role(roleStr)
	return role, role.IsValid()
}

// RequireApprover admits reporting managers and above.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := claimedRole(r)
		if !ok || !role.Outranks(employee.RoleEmployee) {
			response.Forbidden(w, "Approver role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits admins and super admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := claimedRole(r)
		if !ok || !role.Outranks(employee.RoleReportingManager) {
			response.Forbidden(w, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
