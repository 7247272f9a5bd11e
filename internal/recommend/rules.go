package recommend

import (
	"regexp"

	"github.com/ppiankov/cloudshift/internal/billing"
)

// Basis selects which spend a rule's rate is applied to.
type Basis string

const (
	// BasisMatched applies the rate to spend of the matched services.
	BasisMatched Basis = "matched"
	// BasisTotal applies the rate to the whole batch.
	BasisTotal Basis = "total"
)

// Match is what a rule sees after its pattern is applied to the aggregates.
type Match struct {
	Services []string
	Spend    float64
	Share    float64
	Total    float64
}

// Trigger decides whether a rule fires for a match.
type Trigger func(Match) bool

// ShareAbove fires when matched spend exceeds fraction of the total.
func ShareAbove(fraction float64) Trigger {
	return func(m Match) bool { return m.Share > fraction }
}

// SpendAbove fires when matched spend exceeds amount.
func SpendAbove(amount float64) Trigger {
	return func(m Match) bool { return m.Spend > amount }
}

// AnyService fires when at least one service name matches, whatever its spend.
func AnyService() Trigger {
	return func(m Match) bool { return len(m.Services) > 0 }
}

// Rule is one savings heuristic. An empty Provider applies to every cloud.
type Rule struct {
	Slug      string
	Title     string
	Rationale string
	Actions   []string
	Effort    billing.Effort
	Provider  billing.Provider
	Pattern   *regexp.Regexp
	Trigger   Trigger
	Rate      float64
	Basis     Basis
}

// AppliesTo reports whether the rule is gated to p (or ungated).
func (r Rule) AppliesTo(p billing.Provider) bool {
	return r.Provider == "" || r.Provider == p
}

// Saving returns the estimated monthly saving for a match, before rounding.
func (r Rule) Saving(m Match) float64 {
	if r.Basis == BasisTotal {
		return m.Total * r.Rate
	}
	return m.Spend * r.Rate
}

// Rules are evaluated in declaration order; ties in impact keep this order.
var Rules = []Rule{
	{
		Slug:      "rightsizing",
		Title:     "Rightsize Always-On VMs by one tier",
		Rationale: "Compute >30% of spend; rightsizing typically saves 10–20%.",
		Actions:   []string{"Audit CPU/mem <20% for 7d", "Downsize instance family", "Enable autoscaling"},
		Pattern:   regexp.MustCompile(`(EC2|Compute Engine|Virtual Machines)`),
		Trigger:   ShareAbove(0.30),
		Rate:      0.12,
		Basis:     BasisMatched,
	},
	{
		Slug:      "lifecycle",
		Title:     "Enable Lifecycle Policies for cold data",
		Rationale: "Tiering/deletion saves 10–20% on object/block storage.",
		Actions:   []string{"30d→infrequent; 90d→archive", "Delete expired versions"},
		Pattern:   regexp.MustCompile(`(S3|EBS|Cloud Storage|Blob)`),
		Trigger:   SpendAbove(0),
		Rate:      0.12,
		Basis:     BasisMatched,
	},
	{
		Slug:      "egress",
		Title:     "Reduce cross‑AZ/region egress",
		Rationale: "Topology & private links reduce egress by 20–40%.",
		Actions:   []string{"Co‑locate resources", "Use CDN", "Consolidate buckets"},
		Pattern:   regexp.MustCompile(`(Data Transfer|Egress)`),
		Trigger:   SpendAbove(0),
		Rate:      0.25,
		Basis:     BasisMatched,
	},
	{
		Slug:      "rds-ri",
		Title:     "Buy RDS RIs/Savings Plans",
		Rationale: "1‑yr RIs/Savings Plans save ~28%.",
		Actions:   []string{"Find steady DBs", "Commit 1‑yr no‑upfront"},
		Provider:  billing.ProviderAWS,
		Pattern:   regexp.MustCompile(`RDS`),
		Trigger:   AnyService(),
		Rate:      0.28,
		Basis:     BasisMatched,
	},
	{
		// Rated on total spend, not on the matched services.
		Slug:      "ahb",
		Title:     "Enable Azure Hybrid Benefit",
		Rationale: "BYOL reduces compute/SQL cost substantially.",
		Actions:   []string{"Validate license", "Toggle AHB where eligible"},
		Provider:  billing.ProviderAzure,
		Pattern:   regexp.MustCompile(`(App Service|SQL Database)`),
		Trigger:   AnyService(),
		Rate:      0.05,
		Basis:     BasisTotal,
	},
	{
		Slug:      "bq-commit",
		Title:     "Switch BigQuery to flat‑rate commitments",
		Rationale: "Committed use discounts lower analytics volatility and cost.",
		Actions:   []string{"Estimate slot usage", "Buy flex/monthly commitments"},
		Provider:  billing.ProviderGCP,
		Pattern:   regexp.MustCompile(`BigQuery`),
		Trigger:   AnyService(),
		Rate:      0.30,
		Basis:     BasisMatched,
	},
}
