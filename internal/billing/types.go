package billing

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies the cloud a billing record belongs to.
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
	ProviderGCP   Provider = "gcp"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderAWS, ProviderAzure, ProviderGCP}

// ParseProvider converts a provider tag ("aws", "AWS ", ...) into a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &ValidationError{Field: "cloud", Value: s, Reason: "unsupported provider (use aws, azure, or gcp)"}
	}
	return p, nil
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAWS, ProviderAzure, ProviderGCP:
		return true
	}
	return false
}

func (p Provider) String() string { return string(p) }

// CostItem is one validated billing line item.
type CostItem struct {
	Cloud      Provider  `json:"cloud"`
	Service    string    `json:"service"`
	UsageType  string    `json:"usage_type"`
	ResourceID *string   `json:"resource_id"`
	Date       time.Time `json:"date"`
	Cost       float64   `json:"cost"`
}

// Row is an unvalidated billing record as read from an export.
type Row struct {
	Line       int
	Service    string
	UsageType  string
	ResourceID string
	Date       string
	Cost       string
}

// ValidationError reports a record that fails its field contract.
type ValidationError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s %q: %s", e.Line, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
