package lei

import (
	"testing"

	"github.com/ppiankov/cloudshift/internal/billing"
)

func items(services ...string) []billing.CostItem {
	out := make([]billing.CostItem, 0, len(services))
	for _, s := range services {
		out = append(out, billing.CostItem{Cloud: billing.ProviderAWS, Service: s, Cost: 10})
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		services []string
		want     int
	}{
		{"empty", nil, 50},
		{"compute only", []string{"EC2"}, 60},
		{"compute twice counts once", []string{"EC2", "Amazon EC2"}, 60},
		{"all generic", []string{"EC2", "S3", "RDS"}, 80},
		{"azure generic", []string{"Virtual Machines", "Blob Storage", "SQL Database"}, 80},
		{"paas", []string{"Lambda"}, 40},
		{"analytics", []string{"BigQuery"}, 35},
		{"both proprietary", []string{"Azure Functions", "CosmosDB"}, 25},
		{"everything", []string{"Compute Engine", "Cloud Storage", "Cloud SQL", "Cloud Functions", "BigQuery"}, 55},
		{"case sensitive", []string{"ec2", "bigquery"}, 50},
		{"unmatched", []string{"Support", "Route 53"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(items(tt.services...)); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCompute_Bounds(t *testing.T) {
	saved := Rules
	t.Cleanup(func() { Rules = saved })

	Rules = append([]Rule{}, saved...)
	Rules = append(Rules,
		Rule{Name: "big-plus", Pattern: saved[0].Pattern, Delta: 100},
	)
	if got := Compute(items("EC2")); got != MaxScore {
		t.Fatalf("expected clamp to %d, got %d", MaxScore, got)
	}

	Rules = []Rule{{Name: "big-minus", Pattern: saved[4].Pattern, Delta: -100}}
	if got := Compute(items("DynamoDB")); got != MinScore {
		t.Fatalf("expected clamp to %d, got %d", MinScore, got)
	}
}

func TestCompute_AnalyticsNeverIncreases(t *testing.T) {
	batches := [][]string{
		nil,
		{"EC2"},
		{"EC2", "S3", "RDS"},
		{"Lambda", "DynamoDB"},
		{"BigQuery"},
	}
	for _, services := range batches {
		before := Compute(items(services...))
		after := Compute(items(append(append([]string{}, services...), "BigQuery")...))
		if after > before {
			t.Fatalf("adding BigQuery to %v increased score from %d to %d", services, before, after)
		}
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	a := Explain(items("S3", "DynamoDB", "EC2", "Amazon S3"))
	b := Explain(items("Amazon S3", "EC2", "DynamoDB", "S3"))
	if a.Score != b.Score {
		t.Fatalf("expected same score, got %d and %d", a.Score, b.Score)
	}
	if len(a.Hits) != len(b.Hits) {
		t.Fatalf("expected same hits, got %d and %d", len(a.Hits), len(b.Hits))
	}
	for i := range a.Hits {
		if a.Hits[i] != b.Hits[i] {
			t.Fatalf("hit %d differs: %+v vs %+v", i, a.Hits[i], b.Hits[i])
		}
	}
}

func TestExplain_Hits(t *testing.T) {
	res := Explain(items("EC2", "DynamoDB"))
	if res.Score != 45 {
		t.Fatalf("expected 45, got %d", res.Score)
	}
	if res.Baseline != Baseline {
		t.Fatalf("expected baseline %d, got %d", Baseline, res.Baseline)
	}
	if len(res.Hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(res.Hits))
	}
	if res.Hits[0].Rule != "generic-compute" || res.Hits[0].Service != "EC2" {
		t.Fatalf("unexpected first hit %+v", res.Hits[0])
	}
	if res.Hits[1].Rule != "proprietary-analytics" || res.Hits[1].Delta != -15 {
		t.Fatalf("unexpected second hit %+v", res.Hits[1])
	}
}

func TestExplain_EmptyHitsNotNil(t *testing.T) {
	if res := Explain(nil); res.Hits == nil {
		t.Fatal("expected non-nil hits")
	}
}
