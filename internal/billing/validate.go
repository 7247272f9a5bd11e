package billing

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Layouts accepted for Row.Date. Slash dates are month first, as in Azure cost exports.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006/01/02",
	"01/02/2006",
}

const dateReason = "expected YYYY-MM-DD, YYYY/MM/DD, MM/DD/YYYY, YYYY-MM-DDTHH:MM:SS[Z07:00] or YYYY-MM-DD HH:MM:SS[ ZONE]"

// Validate coerces a raw row into a CostItem for the given provider.
// It returns a *ValidationError describing the first field that fails.
func Validate(cloud Provider, row Row) (CostItem, error) {
	if !cloud.Valid() {
		return CostItem{}, &ValidationError{Line: row.Line, Field: "cloud", Value: string(cloud), Reason: "unsupported provider"}
	}

	service := strings.TrimSpace(row.Service)
	if service == "" {
		return CostItem{}, &ValidationError{Line: row.Line, Field: "service", Value: row.Service, Reason: "required"}
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return CostItem{}, &ValidationError{Line: row.Line, Field: "date", Value: row.Date, Reason: dateReason}
	}

	cost, err := parseCost(row.Cost)
	if err != nil {
		return CostItem{}, &ValidationError{Line: row.Line, Field: "cost", Value: row.Cost, Reason: err.Error()}
	}

	item := CostItem{
		Cloud:     cloud,
		Service:   service,
		UsageType: strings.TrimSpace(row.UsageType),
		Date:      date,
		Cost:      cost,
	}
	if id := strings.TrimSpace(row.ResourceID); id != "" {
		item.ResourceID = &id
	}
	return item, nil
}

// ValidateAll validates every row. Valid rows are returned in input order and
// each invalid row contributes exactly one error.
func ValidateAll(cloud Provider, rows []Row) ([]CostItem, []error) {
	items := make([]CostItem, 0, len(rows))
	var errs []error
	for _, row := range rows {
		item, err := Validate(cloud, row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseCost strips all whitespace (exports often contain "1 234.50") before parsing.
// Only decimal notation is accepted; hex floats and digit separators are rejected.
func parseCost(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, errRequired
	}
	if strings.ContainsAny(cleaned, "xXpP_") {
		return 0, errNotNumeric
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

type costError string

func (e costError) Error() string { return string(e) }

const (
	errRequired   costError = "required"
	errNotNumeric costError = "not a number"
	errNotFinite  costError = "must be finite"
)
