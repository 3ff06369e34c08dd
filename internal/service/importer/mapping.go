package importer

import (
	"fmt"
	"strings"

	"github.com/staffsync/hrops-backend-go/internal/domain/imports"
)

// DetectKeyColumn picks the header used to look employees up. Any
// header containing "email" qualifies; the leftmost one wins.
func DetectKeyColumn(headers []string) (string, error) {
	for _, h := range headers {
		if strings.Contains(normalizeHeader(h), "email") {
			return h, nil
		}
	}
	return "", imports.ErrNoKeyColumn
}

// headerRule maps a header keyword onto a target field. Rules are
// checked in order so the more specific keywords must come first.
type headerRule struct {
	keyword string
	field   imports.TargetField
}

var headerRules = []headerRule{
	{"reporting manager", imports.FieldReportingManagerID},
	{"manager id", imports.FieldReportingManagerID},
	{"company id", imports.FieldCompanyID},
	{"role id", imports.FieldRoleID},
	{"team id", imports.FieldTeamID},
	{"role", imports.FieldRole},
	{"department", imports.FieldDepartment},
	{"dept", imports.FieldDepartment},
	{"position", imports.FieldPosition},
	{"job title", imports.FieldPosition},
	{"title", imports.FieldPosition},
	{"hire", imports.FieldHireDate},
	{"start date", imports.FieldHireDate},
	{"joined", imports.FieldHireDate},
	{"active", imports.FieldIsActive},
	{"status", imports.FieldIsActive},
	{"name", imports.FieldName},
}

// InferMapping assigns a target field to every recognizable header.
// The key column never maps onto a field; headers matching no rule are
// reported back as unmapped.
func InferMapping(headers []string, keyColumn string) (imports.FieldMapping, []string) {
	mapping := imports.FieldMapping{
		KeyColumn: keyColumn,
		Columns:   make(map[string]imports.TargetField),
	}
	var unmapped []string

	for _, h := range headers {
		if h == "" || h == keyColumn {
			continue
		}
		normalized := normalizeHeader(h)

		matched := false
		for _, rule := range headerRules {
			if strings.Contains(normalized, rule.keyword) {
				mapping.Columns[h] = rule.field
				matched = true
				break
			}
		}
		if !matched {
			unmapped = append(unmapped, h)
		}
	}
	return mapping, unmapped
}

// ApplyOverrides folds caller-supplied column assignments into the
// inferred mapping. The inference is only a suggestion; an override
// always wins. An empty target drops the column from the run, and the
// key column itself cannot be reassigned.
func ApplyOverrides(mapping imports.FieldMapping, overrides map[string]imports.TargetField) (imports.FieldMapping, error) {
	for header, target := range overrides {
		if header == mapping.KeyColumn {
			continue
		}
		if target == "" {
			delete(mapping.Columns, header)
			continue
		}
		if !target.IsValid() {
			return mapping, fmt.Errorf("%w: %q", imports.ErrUnsupportedModel, target)
		}
		mapping.Columns[header] = target
	}
	return mapping, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}
