package billing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Effort is the relative work needed to apply a recommendation.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Recommendation is a single costed suggestion for reducing spend.
type Recommendation struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	ImpactMonthly float64           `json:"impact_monthly"`
	Effort        Effort            `json:"effort"`
	Rationale     string            `json:"rationale"`
	Actions       []string          `json:"actions"`
	Related       []string          `json:"related"`
	Meta          map[string]string `json:"meta"`
}

// Option customizes a Recommendation built by NewRecommendation.
type Option func(*Recommendation)

// WithEffort sets the effort level.
func WithEffort(e Effort) Option {
	return func(r *Recommendation) { r.Effort = e }
}

// WithRationale sets the justification text.
func WithRationale(s string) Option {
	return func(r *Recommendation) { r.Rationale = s }
}

// WithActions sets the ordered action steps. The slice is copied.
func WithActions(actions ...string) Option {
	return func(r *Recommendation) { r.Actions = append([]string{}, actions...) }
}

// WithMeta adds a metadata entry. The cloud key cannot be overridden.
func WithMeta(key, value string) Option {
	return func(r *Recommendation) {
		if key == "cloud" {
			return
		}
		r.Meta[key] = value
	}
}

// NewRecommendation builds a Recommendation with id "<cloud>-<slug>".
// Impact is clamped at zero and rounded to cents; Related and Meta are never nil.
func NewRecommendation(cloud Provider, slug, title string, impact float64, opts ...Option) Recommendation {
	r := Recommendation{
		ID:            fmt.Sprintf("%s-%s", cloud, slug),
		Title:         title,
		ImpactMonthly: RoundCents(impact),
		Effort:        EffortLow,
		Actions:       []string{},
		Related:       []string{},
		Meta:          map[string]string{"cloud": string(cloud)},
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.Effort == "" {
		r.Effort = EffortLow
	}
	return r
}

// RoundCents rounds v half away from zero to two decimals. Non-positive and
// non-finite values collapse to 0.
func RoundCents(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
