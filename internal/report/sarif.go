package report

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/recommend"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// highImpact is the monthly saving at which a result is reported as an error.
const highImpact = 100.0

// sarifReport is the top-level SARIF v2.1.0 structure.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	DefaultConfig    sarifDefaultLevel `json:"defaultConfiguration"`
}

type sarifDefaultLevel struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string         `json:"ruleId"`
	Level     string         `json:"level"`
	Message   sarifMessage   `json:"message"`
	Locations []sarifLoc     `json:"locations,omitempty"`
	Props     map[string]any `json:"properties,omitempty"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// Generate writes SARIF v2.1.0 output. Each recommendation becomes one result
// whose rule id is the recommendation id.
func (r *SARIFReporter) Generate(data Data) error {
	rules := buildSARIFRules()
	var results []sarifResult

	for _, a := range data.Analyses {
		uri := data.Config.Inputs[string(a.Provider)]
		if uri == "" {
			uri = fmt.Sprintf("cloudshift://%s", a.Provider)
		}
		for _, rec := range a.Recommendations {
			results = append(results, sarifResult{
				RuleID:  rec.ID,
				Level:   sarifLevel(rec.ImpactMonthly),
				Message: sarifMessage{Text: fmt.Sprintf("%s: save ~$%.2f/mo. %s", rec.Title, rec.ImpactMonthly, rec.Rationale)},
				Locations: []sarifLoc{
					{
						PhysicalLocation: sarifPhysical{
							ArtifactLocation: sarifArtifact{URI: uri},
						},
					},
				},
				Props: map[string]any{
					"impactMonthly": rec.ImpactMonthly,
					"effort":        rec.Effort,
					"actions":       rec.Actions,
					"lei":           a.LEI.Score,
				},
			})
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    data.Tool,
						Version: data.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode SARIF report: %w", err)
	}
	return nil
}

// sarifLevel grades a recommendation by its monthly impact.
func sarifLevel(impact float64) string {
	switch {
	case impact >= highImpact:
		return "error"
	case impact > 0:
		return "warning"
	default:
		return "note"
	}
}

// buildSARIFRules lists one rule per provider and recommendation slug.
func buildSARIFRules() []sarifRule {
	var rules []sarifRule
	for _, p := range billing.Providers {
		for _, rule := range recommend.Rules {
			if !rule.AppliesTo(p) {
				continue
			}
			rules = append(rules, sarifRule{
				ID:               fmt.Sprintf("%s-%s", p, rule.Slug),
				ShortDescription: sarifMessage{Text: rule.Title},
				DefaultConfig:    sarifDefaultLevel{Level: "warning"},
			})
		}
	}
	return rules
}
