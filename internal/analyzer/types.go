package analyzer

import (
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/lei"
)

// Summary holds aggregated statistics about an analyzed batch.
type Summary struct {
	Items                   int                `json:"items"`
	Services                int                `json:"services"`
	TotalSpend              float64            `json:"total_spend"`
	ByService               map[string]float64 `json:"by_service"`
	PotentialMonthlySavings float64            `json:"potential_monthly_savings"`
	RecommendationCount     int                `json:"recommendation_count"`
}

// AnalysisResult holds the escape index, filtered recommendations and summary.
type AnalysisResult struct {
	Provider        billing.Provider         `json:"provider"`
	LEI             lei.Result               `json:"lei"`
	Recommendations []billing.Recommendation `json:"recommendations"`
	Summary         Summary                  `json:"summary"`
	Errors          []string                 `json:"errors,omitempty"`
}

// AnalyzerConfig controls analysis behavior.
type AnalyzerConfig struct {
	MinImpact float64
}
