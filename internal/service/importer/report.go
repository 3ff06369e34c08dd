package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

// ErrorReport renders the failed rows of a finished run as CSV, one
// line per failure.
func (e *Engine) ErrorReport(ctx context.Context, actor employee.Actor, sessionID string, w io.Writer) error {
	result, err := e.GetResult(ctx, actor, sessionID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Row Number", "Email", "Error", "Details"}); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, row := range result.Rows {
		if row.Succeeded {
			continue
		}
		details := row.Error.Detail
		if len(row.Warnings) > 0 {
			if details != "" {
				details += "; "
			}
			details += strings.Join(row.Warnings, "; ")
		}
		line := []string{
			strconv.Itoa(row.RowNumber),
			row.Email,
			string(row.Error.Category),
			details,
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
