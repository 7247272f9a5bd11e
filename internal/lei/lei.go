// Package lei computes the Lock-in Escape Index: a 0..100 heuristic of how
// easily a workload could leave its provider. Higher means easier to escape.
package lei

import (
	"regexp"

	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/samber/lo"
)

const (
	// Baseline is the score of a batch that triggers no rule.
	Baseline = 50
	// MinScore and MaxScore bound every result.
	MinScore = 0
	MaxScore = 100
)

// Category groups rules by the kind of service they detect.
type Category string

const (
	CategoryGeneric     Category = "generic"
	CategoryProprietary Category = "proprietary"
)

// Rule adjusts the score by Delta when any item's service matches Pattern.
type Rule struct {
	Name     string
	Category Category
	Pattern  *regexp.Regexp
	Delta    int
}

// Rules is evaluated in order. Deltas are additive, so the order does not change the outcome.
var Rules = []Rule{
	{Name: "generic-compute", Category: CategoryGeneric, Pattern: regexp.MustCompile(`(EC2|Compute Engine|Virtual Machines)`), Delta: 10},
	{Name: "generic-object-storage", Category: CategoryGeneric, Pattern: regexp.MustCompile(`(S3|Cloud Storage|Blob)`), Delta: 10},
	{Name: "managed-sql", Category: CategoryGeneric, Pattern: regexp.MustCompile(`(PostgreSQL|RDS|SQL Database|Cloud SQL)`), Delta: 10},
	{Name: "proprietary-paas", Category: CategoryProprietary, Pattern: regexp.MustCompile(`(Lambda|Functions|App Service)`), Delta: -10},
	{Name: "proprietary-analytics", Category: CategoryProprietary, Pattern: regexp.MustCompile(`(BigQuery|CosmosDB|DynamoDB)`), Delta: -15},
}

// Hit records a rule that fired. Service is the lexically smallest matching
// service name so the result does not depend on input order.
type Hit struct {
	Rule     string   `json:"rule"`
	Category Category `json:"category"`
	Delta    int      `json:"delta"`
	Service  string   `json:"service"`
}

// Result is the score together with the rules that produced it.
type Result struct {
	Score    int   `json:"score"`
	Baseline int   `json:"baseline"`
	Hits     []Hit `json:"hits"`
}

// Compute returns the escape index for items. An empty batch scores Baseline.
func Compute(items []billing.CostItem) int {
	return Explain(items).Score
}

// Explain evaluates every rule against items and reports which ones fired.
func Explain(items []billing.CostItem) Result {
	score := Baseline
	hits := []Hit{}

	for _, rule := range Rules {
		matched := lo.FilterMap(items, func(it billing.CostItem, _ int) (string, bool) {
			return it.Service, rule.Pattern.MatchString(it.Service)
		})
		if len(matched) == 0 {
			continue
		}
		score += rule.Delta
		hits = append(hits, Hit{
			Rule:     rule.Name,
			Category: rule.Category,
			Delta:    rule.Delta,
			Service:  lo.Min(matched),
		})
	}

	return Result{
		Score:    clamp(score),
		Baseline: Baseline,
		Hits:     hits,
	}
}

func clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
