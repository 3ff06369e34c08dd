package employee

// Actor identifies who is performing an operation. Role and tenant travel
// with every call instead of living in ambient state.
type Actor struct {
	EmployeeID string
	CompanyID  string
	Role       Role
}

// UpdateFields is a partial update payload keyed by email during bulk
// reconciliation. Nil fields are left untouched.
type UpdateFields struct {
	FullName           *string
	Role               *Role
	Department         *string
	Position           *string
	HireDate           *string // ISO YYYY-MM-DD
	IsActive           *bool
	CompanyID          *string
	ReportingManagerID *string
	RoleID             *string
	TeamID             *string
}

// IsEmpty reports whether no field is set.
func (f UpdateFields) IsEmpty() bool {
	return f.FullName == nil &&
		f.Role == nil &&
		f.Department == nil &&
		f.Position == nil &&
		f.HireDate == nil &&
		f.IsActive == nil &&
		f.CompanyID == nil &&
		f.ReportingManagerID == nil &&
		f.RoleID == nil &&
		f.TeamID == nil
}

type EmployeeFilter struct {
	Search     string
	Department *string
	IsActive   *bool
	Page       int
	Limit      int
}

type EmployeeResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	Email              string  `json:"email"`
	FullName           string  `json:"full_name"`
	Role               string  `json:"role"`
	Department         *string `json:"department,omitempty"`
	Position           *string `json:"position,omitempty"`
	ReportingManagerID *string `json:"reporting_manager_id,omitempty"`
	HireDate           *string `json:"hire_date,omitempty"`
	IsActive           bool    `json:"is_active"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Employees  []EmployeeResponse `json:"employees"`
}
