package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

// Column names expected in glossary CSV input.
const (
	ColumnTeam       = "Team"
	ColumnMetricName = "Metric_Name"
	ColumnDefinition = "Definition"
)

var requiredColumns = []string{ColumnTeam, ColumnMetricName, ColumnDefinition}

// ParseCSV reads glossary rows from CSV. The first row is the header; extra columns
// are ignored. Rows are returned as-is, including incomplete ones, so that loading
// can count what it skips.
func ParseCSV(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &apperrors.FormatError{Reason: fmt.Sprintf("read csv: %v", err)}
	}
	if len(records) == 0 {
		return nil, &apperrors.FormatError{Reason: "csv input is empty"}
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.FormatError{Missing: missing}
	}

	if len(records) < 2 {
		return nil, &apperrors.FormatError{Reason: "csv has no data rows"}
	}

	rows := make([]models.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, models.ImportRow{
			Team:       getCol(record, colIdx, ColumnTeam),
			MetricName: getCol(record, colIdx, ColumnMetricName),
			Definition: getCol(record, colIdx, ColumnDefinition),
		})
	}
	return rows, nil
}

func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
