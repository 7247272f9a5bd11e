// Package recommend turns a batch of cost items into ranked savings recommendations.
package recommend

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/samber/lo"
)

// MaxRecommendations caps the result size.
const MaxRecommendations = 10

// Generate evaluates Rules against items for provider and returns at most
// MaxRecommendations results sorted by monthly impact, highest first.
func Generate(items []billing.CostItem, provider billing.Provider) []billing.Recommendation {
	return Evaluate(Aggregate(items), provider, Rules)
}

// Evaluate applies rules to pre-aggregated spend.
func Evaluate(spend Spend, provider billing.Provider, rules []Rule) []billing.Recommendation {
	recs := []billing.Recommendation{}

	for _, rule := range rules {
		if !rule.AppliesTo(provider) {
			continue
		}
		m := match(spend, rule)
		if !rule.Trigger(m) {
			continue
		}
		recs = append(recs, billing.NewRecommendation(provider, rule.Slug, rule.Title, rule.Saving(m),
			billing.WithEffort(rule.Effort),
			billing.WithRationale(rule.Rationale),
			billing.WithActions(rule.Actions...),
			billing.WithMeta("basis", string(rule.Basis)),
			billing.WithMeta("services", strings.Join(m.Services, ",")),
		))
	}

	// Stable so equal impacts keep rule declaration order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ImpactMonthly > recs[j].ImpactMonthly
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}

	slog.Debug("recommendations generated",
		slog.String("provider", string(provider)),
		slog.Int("services", len(spend.ByService)),
		slog.Int("count", len(recs)),
	)
	return recs
}

func match(spend Spend, rule Rule) Match {
	// Sorted service order keeps the float sum identical across calls.
	services := spend.Matching(rule.Pattern)
	sum := lo.SumBy(services, func(name string) float64 { return spend.ByService[name] })
	return Match{
		Services: services,
		Spend:    sum,
		Share:    sum / spend.Total,
		Total:    spend.Total,
	}
}
