package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/cloudshift/internal/analyzer"
)

// Generate writes a plain text report.
func (r *TextReporter) Generate(data Data) error {
	var b strings.Builder

	writeSectionHeader(&b, fmt.Sprintf("%s %s", data.Tool, data.Version))
	fmt.Fprintf(&b, "Generated: %s\n", data.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	if data.Config.MinImpact > 0 {
		fmt.Fprintf(&b, "Min impact: %s/mo\n", money(data.Config.MinImpact))
	}
	b.WriteString("\n")

	for _, a := range data.Analyses {
		writeAnalysis(&b, a)
	}

	if len(data.Errors) > 0 {
		writeSectionHeader(&b, "Errors")
		for _, e := range data.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if _, err := io.WriteString(r.Writer, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func writeAnalysis(b *strings.Builder, a *analyzer.AnalysisResult) {
	writeSectionHeader(b, fmt.Sprintf("Provider: %s", a.Provider))
	fmt.Fprintf(b, "Lock-in Escape Index: %d/100 (baseline %d)\n", a.LEI.Score, a.LEI.Baseline)
	for _, h := range a.LEI.Hits {
		fmt.Fprintf(b, "  %+d %-24s %s\n", h.Delta, h.Rule, h.Service)
	}
	b.WriteString("\n")

	if len(a.Recommendations) == 0 {
		b.WriteString("No recommendations.\n\n")
	} else {
		b.WriteString("IMPACT/MO      EFFORT  RECOMMENDATION\n")
		b.WriteString("----------------------------------------------------------------\n")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(b, "%-14s %-7s %s\n", money(rec.ImpactMonthly), rec.Effort, rec.Title)
			if rec.Rationale != "" {
				fmt.Fprintf(b, "%23s%s\n", "", rec.Rationale)
			}
			for _, action := range rec.Actions {
				fmt.Fprintf(b, "%23s- %s\n", "", action)
			}
		}
		b.WriteString("\n")
	}

	writeSummary(b, a.Summary)
}

func writeSummary(b *strings.Builder, s analyzer.Summary) {
	b.WriteString("Summary\n")
	fmt.Fprintf(b, "  Line items:        %s\n", humanize.Comma(int64(s.Items)))
	fmt.Fprintf(b, "  Services:          %d\n", s.Services)
	fmt.Fprintf(b, "  Total spend:       %s\n", money(s.TotalSpend))
	fmt.Fprintf(b, "  Potential savings: %s/mo across %d recommendation(s)\n", money(s.PotentialMonthlySavings), s.RecommendationCount)

	if len(s.ByService) > 0 {
		b.WriteString("  Top services:\n")
		for _, name := range topServices(s.ByService, 5) {
			fmt.Fprintf(b, "    %-32s %s\n", truncate(name, 32), money(s.ByService[name]))
		}
	}
	b.WriteString("\n")
}

// topServices returns up to n services ordered by spend, then name.
func topServices(byService map[string]float64, n int) []string {
	names := make([]string, 0, len(byService))
	for name := range byService {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if byService[names[i]] != byService[names[j]] {
			return byService[names[i]] > byService[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeSectionHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("=", len(title)))
}

