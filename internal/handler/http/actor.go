package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

var errMissingClaims = errors.New("token claims incomplete")

// actorFromRequest rebuilds the acting identity from the verified JWT.
// AuthRequired has already checked the claims exist and parse.
func actorFromRequest(r *http.Request) (employee.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return employee.Actor{}, err
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok {
		return employee.Actor{}, errMissingClaims
	}
	companyID, ok := claims["company_id"].(string)
	if !ok {
		return employee.Actor{}, errMissingClaims
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return employee.Actor{}, errMissingClaims
	}

	return employee.Actor{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       employee.Role(roleStr),
	}, nil
}
