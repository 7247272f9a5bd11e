package report

import (
	"io"
	"time"

	"github.com/ppiankov/cloudshift/internal/analyzer"
)

// Reporter writes an analysis report in a specific format.
type Reporter interface {
	Generate(data Data) error
}

// Data is everything a reporter needs to render one run.
type Data struct {
	Tool      string                     `json:"tool"`
	Version   string                     `json:"version"`
	Timestamp time.Time                  `json:"timestamp"`
	Target    Target                     `json:"target"`
	Config    ReportConfig               `json:"config"`
	Analyses  []*analyzer.AnalysisResult `json:"analyses"`
	Errors    []string                   `json:"errors,omitempty"`
}

// Target identifies the billing inputs without exposing their locations.
type Target struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

// ReportConfig records the settings used for the run.
type ReportConfig struct {
	Providers []string          `json:"providers"`
	Inputs    map[string]string `json:"inputs,omitempty"`
	MinImpact float64           `json:"min_impact"`
}

// TextReporter renders a human-readable report.
type TextReporter struct {
	Writer io.Writer
}

// JSONReporter renders the cloudshift/v1 JSON envelope.
type JSONReporter struct {
	Writer io.Writer
}

// SARIFReporter renders recommendations as SARIF v2.1.0 results.
type SARIFReporter struct {
	Writer io.Writer
}
