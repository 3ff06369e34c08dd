package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmailNotFound           = errors.New("no employee matches the given email")
	ErrEmailExists             = errors.New("email already registered in this company")
	ErrUnauthorized            = errors.New("unauthorized to access this employee")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrInvalidRole             = errors.New("unknown employee role")
)
