package recommend

import (
	"regexp"
	"sort"

	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/samber/lo"
)

// Spend holds per-service cost totals for a batch.
type Spend struct {
	ByService map[string]float64 `json:"by_service"`
	// Total is the batch sum, or 1 when the sum is exactly 0. The substitution
	// only guards the share division; it is not a business rule.
	Total float64 `json:"total"`
	// Raw is the unguarded batch sum.
	Raw float64 `json:"raw"`
}

// Aggregate sums cost per distinct service.
func Aggregate(items []billing.CostItem) Spend {
	byService := make(map[string]float64)
	var total float64
	for _, it := range items {
		byService[it.Service] += it.Cost
		total += it.Cost
	}

	guarded := total
	if guarded == 0 {
		guarded = 1
	}
	return Spend{ByService: byService, Total: guarded, Raw: total}
}

// Services returns the distinct service names in sorted order.
func (s Spend) Services() []string {
	keys := lo.Keys(s.ByService)
	sort.Strings(keys)
	return keys
}

// Matching returns the sorted service names matching re.
func (s Spend) Matching(re *regexp.Regexp) []string {
	return lo.Filter(s.Services(), func(name string, _ int) bool {
		return re.MatchString(name)
	})
}
