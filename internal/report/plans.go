package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/cloudshift/internal/actions"
	"gopkg.in/yaml.v3"
)

// Plan output formats.
const (
	PlanFormatJSON = "json"
	PlanFormatYAML = "yaml"
	PlanFormatText = "text"
)

type planDocument struct {
	Actions []actions.ActionPlan `json:"actions" yaml:"actions"`
}

// WritePlans renders compiled action plans. YAML output uses the same
// `actions:` document shape Compile accepts.
func WritePlans(w io.Writer, format string, plans []actions.ActionPlan) error {
	if plans == nil {
		plans = []actions.ActionPlan{}
	}

	switch format {
	case PlanFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(planDocument{Actions: plans}); err != nil {
			return fmt.Errorf("encode plans as JSON: %w", err)
		}
	case PlanFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(planDocument{Actions: plans}); err != nil {
			return fmt.Errorf("encode plans as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode plans as YAML: %w", err)
		}
	case PlanFormatText, "":
		if _, err := io.WriteString(w, renderPlans(plans)); err != nil {
			return fmt.Errorf("write plans: %w", err)
		}
	default:
		return fmt.Errorf("unsupported plan format %q (use json, yaml, or text)", format)
	}
	return nil
}

func renderPlans(plans []actions.ActionPlan) string {
	var b strings.Builder
	if len(plans) == 0 {
		b.WriteString("No actions defined.\n")
		return b.String()
	}

	for i, p := range plans {
		if i > 0 {
			b.WriteString("\n")
		}
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		if p.ID != "" {
			fmt.Fprintf(&b, "[%s] %s\n", p.ID, title)
		} else {
			fmt.Fprintf(&b, "%s\n", title)
		}
		for j, s := range p.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", j+1, s.Run)
			if s.Note != nil {
				fmt.Fprintf(&b, "     note: %s\n", *s.Note)
			}
		}
	}
	return b.String()
}

// WriteIssues renders lint issues one per line.
func WriteIssues(w io.Writer, issues []actions.Issue) error {
	for _, is := range issues {
		if _, err := fmt.Fprintf(w, "%s: %s\n", is.Code, is.Message); err != nil {
			return fmt.Errorf("write issues: %w", err)
		}
	}
	return nil
}
