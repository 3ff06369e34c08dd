package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/domain/imports"
	"github.com/staffsync/hrops-backend-go/internal/pkg/exceldate"
	"github.com/staffsync/hrops-backend-go/internal/pkg/metrics"
	"github.com/staffsync/hrops-backend-go/internal/pkg/validator"
	"github.com/staffsync/hrops-backend-go/internal/repository/postgresql"
)

// Engine reconciles uploaded employee data against the directory, one
// row at a time. Rows are independent: a failed row never blocks the
// ones after it, and a cancelled run keeps everything already applied.
type Engine struct {
	employeeRepo employee.EmployeeRepository

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	imports.Session
	result *imports.Result
}

func NewEngine(employeeRepo employee.EmployeeRepository) *Engine {
	return &Engine{
		employeeRepo: employeeRepo,
		sessions:     make(map[string]*session),
	}
}

func (e *Engine) Preview(ctx context.Context, actor employee.Actor, fileName string, r io.Reader) (*imports.PreviewResponse, error) {
	if !actor.Role.Outranks(employee.RoleReportingManager) {
		return nil, employee.ErrUnauthorized
	}

	file, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	keyColumn, err := DetectKeyColumn(file.Headers)
	if err != nil {
		return nil, err
	}
	mapping, unmapped := InferMapping(file.Headers, keyColumn)

	return &imports.PreviewResponse{
		KeyColumn: keyColumn,
		Columns:   mapping.Columns,
		Unmapped:  unmapped,
		RowCount:  len(file.Records),
	}, nil
}

func (e *Engine) Run(ctx context.Context, actor employee.Actor, fileName string, r io.Reader, overrides map[string]imports.TargetField) (*imports.Result, error) {
	if !actor.Role.Outranks(employee.RoleReportingManager) {
		return nil, employee.ErrUnauthorized
	}

	file, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	keyColumn, err := DetectKeyColumn(file.Headers)
	if err != nil {
		return nil, err
	}
	mapping, _ := InferMapping(file.Headers, keyColumn)
	mapping, err = ApplyOverrides(mapping, overrides)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &imports.Result{SessionID: uuid.NewString()}
	sess := &session{
		Session: imports.Session{
			ID:        result.SessionID,
			CompanyID: actor.CompanyID,
			FileName:  fileName,
			StartedAt: start,
		},
		result: result,
	}

	// Registered before the first row lands so GetResult can report a
	// long run's progress while it is still going.
	e.mu.Lock()
	e.sessions[sess.ID] = sess
	e.mu.Unlock()

	slog.Info("import run starting",
		"session_id", sess.ID, "file", fileName, "rows", len(file.Records))

	for _, record := range file.Records {
		// A cancelled run stops cleanly between rows; already applied
		// rows stay applied.
		if ctx.Err() != nil {
			e.mu.Lock()
			result.Cancelled = true
			e.mu.Unlock()
			break
		}
		row := e.applyRow(ctx, actor.CompanyID, mapping, record)

		e.mu.Lock()
		result.Rows = append(result.Rows, row)
		e.mu.Unlock()

		if row.Succeeded {
			metrics.ImportRows.WithLabelValues("success", "").Inc()
		} else {
			metrics.ImportRows.WithLabelValues("failed", string(row.Error.Category)).Inc()
		}
	}

	e.mu.Lock()
	result.Tally()
	e.mu.Unlock()

	metrics.ImportDuration.Observe(time.Since(start).Seconds())
	if result.Cancelled {
		metrics.ImportRuns.WithLabelValues("cancelled").Inc()
	} else {
		metrics.ImportRuns.WithLabelValues("completed").Inc()
	}

	slog.Info("import run finished",
		"session_id", sess.ID,
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed,
		"cancelled", result.Cancelled,
		"duration", time.Since(start))

	return result, nil
}

func (e *Engine) applyRow(ctx context.Context, companyID string, mapping imports.FieldMapping, record imports.Record) imports.RowResult {
	row := imports.RowResult{RowNumber: record.RowNumber}

	email := strings.TrimSpace(record.Values[mapping.KeyColumn])
	if email == "" {
		row.Error = &imports.RowError{Category: imports.CategoryMissingEmail, Field: mapping.KeyColumn}
		return row
	}
	row.Email = email

	fields, warnings := buildUpdateFields(mapping, record)
	row.Warnings = warnings

	if fields.IsEmpty() {
		row.Error = &imports.RowError{Category: imports.CategoryNoDataToUpdate}
		return row
	}

	n, err := e.employeeRepo.UpdateByEmail(ctx, companyID, email, fields)
	if err != nil {
		row.Error = classifyRowError(err)
		return row
	}
	if n == 0 {
		row.Error = &imports.RowError{Category: imports.CategoryEmailNotFound, Field: mapping.KeyColumn}
		return row
	}

	row.Succeeded = true
	return row
}

func buildUpdateFields(mapping imports.FieldMapping, record imports.Record) (employee.UpdateFields, []string) {
	var fields employee.UpdateFields
	var warnings []string

	for header, target := range mapping.Columns {
		value := strings.TrimSpace(record.Values[header])
		if value == "" {
			continue
		}

		switch target {
		case imports.FieldName:
			fields.FullName = &value
		case imports.FieldRole:
			role := employee.Role(strings.ToLower(value))
			if !role.IsValid() {
				warnings = append(warnings, fmt.Sprintf("%s: unknown role %q dropped", header, value))
				continue
			}
			fields.Role = &role
		case imports.FieldDepartment:
			fields.Department = &value
		case imports.FieldPosition:
			fields.Position = &value
		case imports.FieldHireDate:
			parsed, err := exceldate.Parse(value)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: unparseable date %q dropped", header, value))
				continue
			}
			iso := parsed.Format("2006-01-02")
			fields.HireDate = &iso
		case imports.FieldIsActive:
			active := validator.ParseBool(value)
			fields.IsActive = &active
		case imports.FieldCompanyID:
			fields.CompanyID = &value
		case imports.FieldReportingManagerID:
			fields.ReportingManagerID = &value
		case imports.FieldRoleID:
			fields.RoleID = &value
		case imports.FieldTeamID:
			fields.TeamID = &value
		}
	}
	return fields, warnings
}

func classifyRowError(err error) *imports.RowError {
	var dataErr *postgresql.DataError
	if errors.As(err, &dataErr) {
		var category imports.Category
		switch dataErr.Kind {
		case postgresql.KindForeignKey:
			category = imports.CategoryForeignKeyViolation
		case postgresql.KindDuplicate:
			category = imports.CategoryDuplicateValue
		case postgresql.KindInvalidDate:
			category = imports.CategoryInvalidDateFormat
		case postgresql.KindInvalidID:
			category = imports.CategoryInvalidIdFormat
		default:
			category = imports.CategoryDatabaseError
		}
		return &imports.RowError{Category: category, Field: dataErr.Field, Detail: dataErr.Error()}
	}
	return &imports.RowError{Category: imports.CategoryDatabaseError, Detail: err.Error()}
}

// GetResult returns a point-in-time copy of a session's outcome. For a
// session still running it covers the rows applied so far.
func (e *Engine) GetResult(ctx context.Context, actor employee.Actor, sessionID string) (*imports.Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sess, ok := e.sessions[sessionID]
	if !ok || sess.CompanyID != actor.CompanyID {
		return nil, imports.ErrSessionNotFound
	}
	snapshot := *sess.result
	snapshot.Rows = append([]imports.RowResult(nil), sess.result.Rows...)
	snapshot.Tally()
	return &snapshot, nil
}
