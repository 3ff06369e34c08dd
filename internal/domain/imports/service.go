package imports

import (
	"context"
	"io"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type ImportService interface {
	// Run parses the upload, infers the column mapping, folds in any
	// caller overrides and applies the rows one by one. It honors ctx
	// cancellation between rows.
	Run(ctx context.Context, actor employee.Actor, fileName string, r io.Reader, overrides map[string]TargetField) (*Result, error)
	// Preview parses the upload and reports the inferred mapping
	// without touching any employee rows.
	Preview(ctx context.Context, actor employee.Actor, fileName string, r io.Reader) (*PreviewResponse, error)
	// GetResult reports a session's outcome; polled during a run it
	// returns the rows applied so far.
	GetResult(ctx context.Context, actor employee.Actor, sessionID string) (*Result, error)
	// ErrorReport renders the failed rows of a finished run as CSV.
	ErrorReport(ctx context.Context, actor employee.Actor, sessionID string, w io.Writer) error
}

type PreviewResponse struct {
	KeyColumn string                 `json:"key_column"`
	Columns   map[string]TargetField `json:"columns"`
	Unmapped  []string               `json:"unmapped,omitempty"`
	RowCount  int                    `json:"row_count"`
}
