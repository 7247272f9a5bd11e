package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and actions file",
	Long:  `Creates a sample .cloudshift.yaml config file and an actions.yaml migration plan template.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".cloudshift.yaml"
	actionsPath := "actions.yaml"

	wrote := 0
	for _, f := range []struct{ path, content string }{
		{configPath, sampleConfig},
		{actionsPath, sampleActions},
	} {
		ok, err := writeIfNotExists(f.path, f.content, initFlags.force)
		if err != nil {
			return err
		}
		if ok {
			wrote++
		}
	}

	if wrote > 0 {
		fmt.Printf("Created %d file(s)\n", wrote)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Point the inputs in .cloudshift.yaml at your billing exports")
		fmt.Println("  2. Run: cloudshift analyze --all")
		fmt.Println("  3. Edit actions.yaml and run: cloudshift compile actions.yaml")
	}
	return nil
}

// writeIfNotExists writes content to path and reports whether it did.
func writeIfNotExists(path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# cloudshift configuration
# See: https://github.com/ppiankov/cloudshift

# Default provider for 'cloudshift analyze'
provider: aws

# Billing exports per provider: local CSV paths or s3://bucket/key
# Columns: service, usage_type, resource_id, date, cost
inputs:
  aws: data/aws.csv
#  azure: data/azure.csv
#  gcp: s3://billing-exports/gcp/2024-05.csv

# Output format: text, json, or sarif
format: text

# Minimum monthly impact to report ($)
min_impact: 0

# Listen address for 'cloudshift serve'
addr: ":8787"

# AWS settings for s3:// inputs (or set AWS_PROFILE / AWS_REGION)
# aws_profile: default
# aws_region: us-east-1

# Load timeout
timeout: 5m

# Billing lines to drop before analysis (trailing * matches by prefix)
# exclude:
#   services:
#     - Tax
#     - "AWS Support*"
`

const sampleActions = `# cloudshift action plans
# Steps are bare commands or {run, note} mappings, kept in declared order.
actions:
  - id: rightsize-web
    title: Rightsize the web tier by one instance size
    steps:
      - aws ec2 describe-instances --filters Name=tag:tier,Values=web
      - run: aws autoscaling update-auto-scaling-group --auto-scaling-group-name web --launch-template LaunchTemplateName=web-small
        note: roll out during low traffic
  - id: s3-lifecycle
    title: Tier cold objects after 30 days
    steps:
      - aws s3api put-bucket-lifecycle-configuration --bucket logs --lifecycle-configuration file://lifecycle.json
`
