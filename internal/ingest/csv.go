package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/cloudshift/internal/billing"
)

// Column names recognised in billing exports. Header matching is case-insensitive.
const (
	ColumnService    = "service"
	ColumnUsageType  = "usage_type"
	ColumnResourceID = "resource_id"
	ColumnDate       = "date"
	ColumnCost       = "cost"
)

var requiredColumns = []string{ColumnService, ColumnDate, ColumnCost}

// DecodeCSV reads a header-based billing export into raw rows. Cells are
// trimmed and blank lines skipped. Row.Line counts data rows from 1.
func DecodeCSV(r io.Reader) ([]billing.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read CSV header: empty input")
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("CSV header missing required column %q", col)
		}
	}

	cell := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []billing.Row
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", line+1, err)
		}
		line++
		if blank(rec) {
			continue
		}
		rows = append(rows, billing.Row{
			Line:       line,
			Service:    cell(rec, ColumnService),
			UsageType:  cell(rec, ColumnUsageType),
			ResourceID: cell(rec, ColumnResourceID),
			Date:       cell(rec, ColumnDate),
			Cost:       cell(rec, ColumnCost),
		})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
