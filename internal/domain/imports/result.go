package imports

// Category classifies why a row failed.
type Category string

const (
	CategoryMissingEmail        Category = "MissingEmail"
	CategoryNoDataToUpdate      Category = "NoDataToUpdate"
	CategoryEmailNotFound       Category = "EmailNotFound"
	CategoryForeignKeyViolation Category = "ForeignKeyViolation"
	CategoryDuplicateValue      Category = "DuplicateValue"
	CategoryInvalidDateFormat   Category = "InvalidDateFormat"
	CategoryInvalidIdFormat     Category = "InvalidIdFormat"
	CategoryDatabaseError       Category = "DatabaseError"
)

type RowError struct {
	Category Category `json:"category"`
	Field    string   `json:"field,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

type RowResult struct {
	RowNumber int       `json:"row_number"`
	Email     string    `json:"email,omitempty"`
	Succeeded bool      `json:"succeeded"`
	Error     *RowError `json:"error,omitempty"`
	// Warnings carry non-fatal notes, such as a date value that could
	// not be parsed and was dropped from the update.
	Warnings []string `json:"warnings,omitempty"`
}

type Summary struct {
	Total      int              `json:"total"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	ByCategory map[Category]int `json:"by_category,omitempty"`
}

type Result struct {
	SessionID string      `json:"session_id"`
	Rows      []RowResult `json:"rows"`
	Summary   Summary     `json:"summary"`
	// Cancelled is set when the run stopped early on context
	// cancellation; Rows then covers only the processed prefix.
	Cancelled bool `json:"cancelled"`
}

func (r *Result) Tally() {
	r.Summary = Summary{Total: len(r.Rows), ByCategory: map[Category]int{}}
	for _, row := range r.Rows {
		if row.Succeeded {
			r.Summary.Succeeded++
			continue
		}
		r.Summary.Failed++
		if row.Error != nil {
			r.Summary.ByCategory[row.Error.Category]++
		}
	}
	if len(r.Summary.ByCategory) == 0 {
		r.Summary.ByCategory = nil
	}
}
