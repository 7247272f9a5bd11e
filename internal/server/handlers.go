package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/cloudshift/internal/actions"
	"github.com/ppiankov/cloudshift/internal/analyzer"
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/lei"
)

type handlers struct {
	opts Options
}

// RecommendationsResponse is the body of GET /recommendations.
type RecommendationsResponse struct {
	Provider        billing.Provider         `json:"provider"`
	LEI             int                      `json:"lei"`
	Hits            []lei.Hit                `json:"hits"`
	Recommendations []billing.Recommendation `json:"recommendations"`
	Summary         analyzer.Summary         `json:"summary"`
}

// CompileResponse is the body of POST /actions/compile.
type CompileResponse struct {
	Plans  []actions.ActionPlan `json:"plans"`
	Issues []actions.Issue      `json:"issues"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "name": Name, "version": h.opts.Version})
}

func (h *handlers) recommendations(c *gin.Context) {
	raw := c.Query("provider")
	if strings.TrimSpace(raw) == "" {
		raw = string(billing.ProviderAWS)
	}
	provider, err := billing.ParseProvider(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_provider", err.Error(), gin.H{"supported": billing.Providers})
		return
	}

	items, ok := h.opts.Items[provider]
	if !ok {
		respondError(c, http.StatusNotFound, "no_data", fmt.Sprintf("no billing data loaded for %s", provider), nil)
		return
	}

	analysis := analyzer.Analyze(items, provider, analyzer.AnalyzerConfig{MinImpact: h.opts.MinImpact})
	c.JSON(http.StatusOK, RecommendationsResponse{
		Provider:        provider,
		LEI:             analysis.LEI.Score,
		Hits:            analysis.LEI.Hits,
		Recommendations: analysis.Recommendations,
		Summary:         analysis.Summary,
	})
}

func (h *handlers) compileActions(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("body exceeds %d bytes", maxBodyBytes), nil)
			return
		}
		respondError(c, http.StatusBadRequest, "bad_body", err.Error(), nil)
		return
	}
	plans, err := actions.CompileBytes(body)
	if err != nil {
		var pe *actions.ParseError
		if errors.As(err, &pe) {
			respondError(c, http.StatusBadRequest, "parse_error", pe.Error(), gin.H{"line": pe.Line})
			return
		}
		respondError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, CompileResponse{Plans: plans, Issues: actions.Lint(plans)})
}
