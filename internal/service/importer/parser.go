package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/staffsync/hrops-backend-go/internal/domain/imports"
)

// ParseCSV reads an upload into headers plus rows. Row numbers count
// from the top of the file, so the first data row is row 2.
func ParseCSV(r io.Reader) (*imports.File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, imports.ErrEmptyFile
	}

	headers := make([]string, len(rows[0]))
	blank := true
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, imports.ErrMissingHeaders
	}

	file := &imports.File{Headers: headers}
	for i, row := range rows[1:] {
		record := imports.Record{
			RowNumber: i + 2,
			Values:    make(map[string]string, len(headers)),
		}
		for j, header := range headers {
			if header == "" || j >= len(row) {
				continue
			}
			record.Values[header] = strings.TrimSpace(row[j])
		}
		file.Records = append(file.Records, record)
	}

	if len(file.Records) == 0 {
		return nil, imports.ErrEmptyFile
	}
	return file, nil
}
