package analyzer

import (
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/lei"
	"github.com/ppiankov/cloudshift/internal/recommend"
	"github.com/samber/lo"
)

// Analyze scores items, generates recommendations for provider, drops those
// below cfg.MinImpact and computes summary statistics.
func Analyze(items []billing.CostItem, provider billing.Provider, cfg AnalyzerConfig) *AnalysisResult {
	recs := lo.Filter(recommend.Generate(items, provider), func(r billing.Recommendation, _ int) bool {
		return r.ImpactMonthly >= cfg.MinImpact
	})

	spend := recommend.Aggregate(items)
	byService := make(map[string]float64, len(spend.ByService))
	for name, cost := range spend.ByService {
		byService[name] = roundSigned(cost)
	}

	summary := Summary{
		Items:      len(items),
		Services:   len(byService),
		TotalSpend: roundSigned(spend.Raw),
		ByService:  byService,
		PotentialMonthlySavings: billing.RoundCents(lo.SumBy(recs, func(r billing.Recommendation) float64 {
			return r.ImpactMonthly
		})),
		RecommendationCount: len(recs),
	}

	return &AnalysisResult{
		Provider:        provider,
		LEI:             lei.Explain(items),
		Recommendations: recs,
		Summary:         summary,
	}
}

// roundSigned rounds to cents while keeping the sign, since spend totals may
// include credits.
func roundSigned(v float64) float64 {
	if v < 0 {
		return -billing.RoundCents(-v)
	}
	return billing.RoundCents(v)
}
