package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/cloudshift/internal/analyzer"
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/report"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	provider   string
	input      string
	all        bool
	format     string
	outputFile string
	minImpact  float64
	noProgress bool
	timeout    time.Duration
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score lock-in and recommend savings from a billing export",
	Long: `Analyze a billing export (CSV with service, usage_type, resource_id, date
and cost columns) and report the Lock-in Escape Index together with costed
savings recommendations. Inputs may be local paths or s3://bucket/key objects.

Without --input the location is taken from the inputs section of
.cloudshift.yaml. With --all every configured provider is analyzed.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.provider, "provider", "", "Cloud provider of the export: aws, azure, gcp")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.input, "input", "i", "", "Billing export path or s3://bucket/key")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.all, "all", false, "Analyze every provider configured in .cloudshift.yaml")
	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", "text", "Output format: text, json, sarif")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.minImpact, "min-impact", 0, "Minimum monthly impact to report ($)")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noProgress, "no-progress", false, "Disable progress output")
	analyzeCmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", 5*time.Minute, "Load timeout")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	// Apply config file defaults where flags were not explicitly set
	applyConfigDefaults()

	ctx := cmd.Context()
	if analyzeFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzeFlags.timeout)
		defer cancel()
	}

	inputs, err := resolveInputs()
	if err != nil {
		return err
	}
	slog.Info("Analyzing billing exports", "count", len(inputs))

	result, err := loadInputs(ctx, inputs, !analyzeFlags.noProgress)
	if err != nil {
		return err
	}

	providers := orderedProviders(result.Batches)
	if len(providers) == 0 {
		return fmt.Errorf("no billing data loaded: %v", result.Errors)
	}

	analyses := make([]*analyzer.AnalysisResult, 0, len(providers))
	rejected := 0
	for _, p := range providers {
		batch := result.Batches[p]
		rejected += len(batch.Errors)
		items := excludeItems(batch.Items, cfg.Exclude)
		analyses = append(analyses, analyzer.Analyze(items, p, analyzer.AnalyzerConfig{
			MinImpact: analyzeFlags.minImpact,
		}))
	}
	if rejected > 0 {
		slog.Warn("Rejected invalid billing rows", "count", rejected)
	}

	data := report.Data{
		Tool:      "cloudshift",
		Version:   version,
		Timestamp: time.Now().UTC(),
		Target: report.Target{
			Type:    "billing-export",
			URIHash: computeTargetHash(inputs),
		},
		Config: report.ReportConfig{
			Providers: providerNames(providers),
			Inputs:    inputNames(inputs),
			MinImpact: analyzeFlags.minImpact,
		},
		Analyses: analyses,
		Errors:   result.Errors,
	}

	var w io.Writer = os.Stdout
	if analyzeFlags.outputFile != "" {
		f, err := os.Create(analyzeFlags.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	reporter, err := selectReporter(analyzeFlags.format, w)
	if err != nil {
		return err
	}
	return reporter.Generate(data)
}

// resolveInputs decides which provider exports to load from flags and config.
func resolveInputs() (map[billing.Provider]string, error) {
	if analyzeFlags.all {
		if analyzeFlags.input != "" {
			return nil, fmt.Errorf("--all and --input are mutually exclusive")
		}
		inputs, err := cfg.ProviderInputs()
		if err != nil {
			return nil, err
		}
		if len(inputs) == 0 {
			return nil, fmt.Errorf("--all requires inputs in .cloudshift.yaml (run 'cloudshift init')")
		}
		return inputs, nil
	}

	if analyzeFlags.provider == "" {
		return nil, fmt.Errorf("--provider is required (aws, azure, or gcp)")
	}
	p, err := billing.ParseProvider(analyzeFlags.provider)
	if err != nil {
		return nil, enhanceError("parse provider", err)
	}

	location := analyzeFlags.input
	if location == "" {
		configured, err := cfg.ProviderInputs()
		if err != nil {
			return nil, err
		}
		location = configured[p]
	}
	if location == "" {
		return nil, fmt.Errorf("--input is required for %s (or set inputs.%s in .cloudshift.yaml)", p, p)
	}
	return map[billing.Provider]string{p: location}, nil
}

func applyConfigDefaults() {
	if analyzeFlags.format == "text" && cfg.Format != "" {
		analyzeFlags.format = cfg.Format
	}
	if analyzeFlags.provider == "" && cfg.Provider != "" {
		analyzeFlags.provider = cfg.Provider
	}
	if analyzeFlags.minImpact == 0 && cfg.MinImpact > 0 {
		analyzeFlags.minImpact = cfg.MinImpact
	}
	if analyzeFlags.timeout == 5*time.Minute {
		if d := cfg.TimeoutDuration(); d > 0 {
			analyzeFlags.timeout = d
		}
	}
}

func selectReporter(format string, w io.Writer) (report.Reporter, error) {
	switch format {
	case "json":
		return &report.JSONReporter{Writer: w}, nil
	case "text":
		return &report.TextReporter{Writer: w}, nil
	case "sarif":
		return &report.SARIFReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text, json, or sarif)", format)
	}
}

func providerNames(providers []billing.Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}
	return names
}

func inputNames(inputs map[billing.Provider]string) map[string]string {
	out := make(map[string]string, len(inputs))
	for p, loc := range inputs {
		out[string(p)] = loc
	}
	return out
}
