package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/cloudshift/internal/billing"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return NewRouter(Options{
		Version: "1.2.3",
		Items: map[billing.Provider][]billing.CostItem{
			billing.ProviderAWS: {
				{Cloud: billing.ProviderAWS, Service: "AmazonEC2", Date: day, Cost: 400},
				{Cloud: billing.ProviderAWS, Service: "AmazonS3", Date: day, Cost: 100},
			},
			billing.ProviderAzure: {},
		},
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	resp := do(testRouter(t), http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["ok"] != true || body["name"] != "cloudshift-api" || body["version"] != "1.2.3" {
		t.Fatalf("unexpected health body %v", body)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id header")
	}
}

func TestRequestID_Reused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	testRouter(t).ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("expected incoming request id, got %q", got)
	}
}

func TestRecommendations(t *testing.T) {
	resp := do(testRouter(t), http.MethodGet, "/recommendations?provider=AWS", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body RecommendationsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Provider != billing.ProviderAWS {
		t.Fatalf("expected aws, got %s", body.Provider)
	}
	if body.LEI != 70 {
		t.Fatalf("expected LEI 70, got %d", body.LEI)
	}
	if len(body.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(body.Recommendations))
	}
	if body.Recommendations[0].ID != "aws-rightsizing" || body.Recommendations[0].ImpactMonthly != 48 {
		t.Fatalf("unexpected first recommendation %+v", body.Recommendations[0])
	}
}

func TestRecommendations_DefaultProvider(t *testing.T) {
	resp := do(testRouter(t), http.MethodGet, "/recommendations", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"provider":"aws"`) {
		t.Fatalf("expected aws default, got %s", resp.Body.String())
	}
}

func TestRecommendations_EmptyProviderFallsBack(t *testing.T) {
	for _, path := range []string{"/recommendations?provider=", "/recommendations?provider=%20"} {
		resp := do(testRouter(t), http.MethodGet, path, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
		if !strings.Contains(resp.Body.String(), `"provider":"aws"`) {
			t.Fatalf("%s: expected aws fallback, got %s", path, resp.Body.String())
		}
	}
}

func TestRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown provider", "/recommendations?provider=oracle", http.StatusBadRequest, "invalid_provider"},
		{"no data", "/recommendations?provider=gcp", http.StatusNotFound, "no_data"},
		{"unknown route", "/nope", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(testRouter(t), http.MethodGet, tt.path, "")
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}

func TestRecommendations_EmptyBatch(t *testing.T) {
	resp := do(testRouter(t), http.MethodGet, "/recommendations?provider=azure", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body RecommendationsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.LEI != 50 || len(body.Recommendations) != 0 {
		t.Fatalf("expected baseline and no recommendations, got %+v", body)
	}
}

func TestCompileActions(t *testing.T) {
	doc := "actions:\n  - id: a\n    title: A\n    steps:\n      - echo one\n      - run: echo two\n        note: second\n  - title: B\n"
	resp := do(testRouter(t), http.MethodPost, "/actions/compile", doc)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body CompileResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(body.Plans))
	}
	if len(body.Plans[0].Steps) != 2 || body.Plans[0].Steps[1].Note == nil {
		t.Fatalf("unexpected steps %+v", body.Plans[0].Steps)
	}
	if len(body.Issues) != 1 || body.Issues[0].Code != "missing_id" {
		t.Fatalf("expected one missing_id issue, got %+v", body.Issues)
	}
}

func TestCompileActions_Empty(t *testing.T) {
	resp := do(testRouter(t), http.MethodPost, "/actions/compile", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"plans":[]`) {
		t.Fatalf("expected empty plans, got %s", resp.Body.String())
	}
}

func TestCompileActions_ParseError(t *testing.T) {
	resp := do(testRouter(t), http.MethodPost, "/actions/compile", "actions: [a, b")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Error.Code != "parse_error" {
		t.Fatalf("expected parse_error, got %s", body.Error.Code)
	}
}

func TestCompileActions_TooLarge(t *testing.T) {
	big := "actions: []\n# " + strings.Repeat("x", maxBodyBytes)
	resp := do(testRouter(t), http.MethodPost, "/actions/compile", big)
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
}

func TestCORS(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/recommendations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on preflight, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("expected allowed origin echoed, got %q", resp.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("expected no CORS header for unknown origin")
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	resp := do(r, http.MethodGet, "/boom", "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"internal"`) {
		t.Fatalf("expected internal error envelope, got %s", resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ":8787"},
		{"9000", ":9000"},
		{":9000", ":9000"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
	}
	for _, tt := range tests {
		if got := Addr(tt.in); got != tt.want {
			t.Fatalf("Addr(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
