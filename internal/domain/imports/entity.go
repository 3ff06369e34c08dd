package imports

import "time"

// Record is one data row from an uploaded file. Values is keyed by the
// header text exactly as it appeared in the file.
type Record struct {
	RowNumber int
	Values    map[string]string
}

type File struct {
	Headers []string
	Records []Record
}

// TargetField names an employee attribute a file column can map onto.
type TargetField string

const (
	FieldName               TargetField = "name"
	FieldRole               TargetField = "role"
	FieldDepartment         TargetField = "department"
	FieldPosition           TargetField = "position"
	FieldHireDate           TargetField = "hire_date"
	FieldIsActive           TargetField = "is_active"
	FieldCompanyID          TargetField = "company_id"
	FieldReportingManagerID TargetField = "reporting_manager_id"
	FieldRoleID             TargetField = "role_id"
	FieldTeamID             TargetField = "team_id"
)

func (f TargetField) IsValid() bool {
	switch f {
	case FieldName, FieldRole, FieldDepartment, FieldPosition, FieldHireDate,
		FieldIsActive, FieldCompanyID, FieldReportingManagerID, FieldRoleID, FieldTeamID:
		return true
	}
	return false
}

// FieldMapping relates file headers to target fields. KeyColumn holds
// the header used to look employees up by email.
type FieldMapping struct {
	KeyColumn string
	Columns   map[string]TargetField
}

type Session struct {
	ID        string
	CompanyID string
	FileName  string
	StartedAt time.Time
}
