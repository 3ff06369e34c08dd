package employee

import (
	"time"
)

type Employee struct {
	ID                 string
	CompanyID          string
	ReportingManagerID *string
	RoleID             *string
	TeamID             *string
	Email              string
	FullName           string
	Department         *string
	Position           *string
	Role               Role
	HireDate           *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}
