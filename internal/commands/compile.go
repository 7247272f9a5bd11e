package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ppiankov/cloudshift/internal/actions"
	"github.com/ppiankov/cloudshift/internal/report"
	"github.com/spf13/cobra"
)

var compileFlags struct {
	format     string
	outputFile string
	strict     bool
}

var compileCmd = &cobra.Command{
	Use:   "compile <actions.yaml | ->",
	Short: "Compile a YAML action file into ordered step plans",
	Long: `Compile a declarative actions document into ordered plans. Steps may be
bare command strings or {run, note} mappings. Use "-" to read from stdin.

Structural problems (missing ids or titles, duplicate ids, empty commands)
are reported as warnings; --strict turns them into a failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileFlags.format, "format", report.PlanFormatText, "Output format: text, json, yaml")
	compileCmd.Flags().StringVarP(&compileFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	compileCmd.Flags().BoolVar(&compileFlags.strict, "strict", false, "Fail when the plans have lint issues")
}

func runCompile(cmd *cobra.Command, args []string) error {
	data, err := readActionsFile(args[0], cmd.InOrStdin())
	if err != nil {
		return enhanceError("read actions", err)
	}

	plans, err := actions.CompileBytes(data)
	if err != nil {
		return enhanceError("compile actions", err)
	}

	issues := actions.Lint(plans)
	for _, is := range issues {
		slog.Warn("Action lint issue", "code", is.Code, "plan", is.Plan, "step", is.Step, "id", is.ID)
	}
	if compileFlags.strict && len(issues) > 0 {
		if err := report.WriteIssues(cmd.ErrOrStderr(), issues); err != nil {
			return err
		}
		return fmt.Errorf("%d lint issue(s) found in %s", len(issues), args[0])
	}

	var w io.Writer = cmd.OutOrStdout()
	if compileFlags.outputFile != "" {
		f, err := os.Create(compileFlags.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return report.WritePlans(w, compileFlags.format, plans)
}

func readActionsFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
