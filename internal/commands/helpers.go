package commands

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ppiankov/cloudshift/internal/actions"
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/config"
	"github.com/ppiankov/cloudshift/internal/ingest"
	"github.com/samber/lo"
)

// enhanceError wraps an error with context and suggestions for common issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	var parseErr *actions.ParseError
	var validationErr *billing.ValidationError
	switch {
	case errors.As(err, &parseErr):
		hint = fmt.Sprintf("Fix the YAML syntax near line %d; see 'cloudshift init' for a sample actions.yaml", parseErr.Line)
	case errors.As(err, &validationErr):
		hint = "Check the value against the supported formats (providers: aws, azure, gcp)"
	case errors.Is(err, os.ErrNotExist):
		hint = "Input file not found. Check the path or the inputs section of .cloudshift.yaml"
	case strings.Contains(msg, "missing required column"):
		hint = "Billing CSV needs a header with at least service, date and cost columns"
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "failed to retrieve credentials"):
		hint = "Configure AWS credentials for s3:// inputs: set AWS_PROFILE, pass --profile, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "AccessDenied"):
		hint = "Insufficient permissions. The role needs s3:GetObject on the export bucket"
	case strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NoSuchBucket"):
		hint = "S3 object not found. Check the bucket and key of the s3:// input"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// computeTargetHash generates a SHA256 hash over the provider inputs.
func computeTargetHash(inputs map[billing.Provider]string) string {
	keys := lo.Keys(inputs)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, 0, len(keys))
	for _, p := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", p, inputs[p]))
	}
	h := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return fmt.Sprintf("sha256:%x", h)
}

// newSource creates a source for inputs. AWS configuration is only loaded
// when at least one input lives in S3.
func newSource(ctx context.Context, inputs map[billing.Provider]string) (ingest.Source, error) {
	router := ingest.Router{}
	if !lo.SomeBy(lo.Values(inputs), ingest.IsS3) {
		return router, nil
	}

	prof := lo.CoalesceOrEmpty(profile, cfg.AWSProfile)
	reg := lo.CoalesceOrEmpty(region, cfg.AWSRegion)
	s3src, err := ingest.NewS3SourceFromProfile(ctx, prof, reg)
	if err != nil {
		return nil, enhanceError("initialize S3 source", err)
	}
	router.S3 = s3src
	return router, nil
}

// loadInputs loads every input, showing a spinner on stderr unless disabled.
func loadInputs(ctx context.Context, inputs map[billing.Provider]string, showProgress bool) (*ingest.LoadResult, error) {
	src, err := newSource(ctx, inputs)
	if err != nil {
		return nil, err
	}

	loader := ingest.NewLoader(src, len(inputs))
	if showProgress {
		sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		sp.Suffix = " Loading billing exports ..."
		loader.SetProgressFn(func(p billing.Provider) {
			sp.Lock()
			sp.Suffix = fmt.Sprintf(" Loading %s billing export ...", p)
			sp.Unlock()
		})
		sp.Start()
		defer sp.Stop()
	}

	result, err := loader.LoadAll(ctx, inputs)
	if err != nil {
		return nil, enhanceError("load billing exports", err)
	}
	return result, nil
}

// excludeItems drops items whose service is excluded in config.
func excludeItems(items []billing.CostItem, exclude config.Exclude) []billing.CostItem {
	if len(exclude.Services) == 0 {
		return items
	}
	return lo.Reject(items, func(it billing.CostItem, _ int) bool {
		return exclude.Matches(it.Service)
	})
}

// orderedProviders returns the providers present in batches in display order.
func orderedProviders(batches map[billing.Provider]*ingest.Batch) []billing.Provider {
	return lo.Filter(billing.Providers, func(p billing.Provider, _ int) bool {
		_, ok := batches[p]
		return ok
	})
}
