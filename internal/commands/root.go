package commands

import (
	"log/slog"

	"github.com/ppiankov/cloudshift/internal/config"
	"github.com/ppiankov/cloudshift/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	profile string
	region  string
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cloudshift",
	Short: "cloudshift: cloud lock-in and savings advisor",
	Long: `cloudshift reads billing exports from AWS, Azure and GCP and reports how
portable the workload is (the Lock-in Escape Index, 0-100) together with
costed savings recommendations.

It also compiles declarative YAML action files into ordered migration plans
and can serve all of this over a small HTTP API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS profile for s3:// inputs")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region for s3:// inputs")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
