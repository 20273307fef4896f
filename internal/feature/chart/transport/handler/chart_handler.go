// Package handler provides the HTTP handler for the chart feature.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chart_backend/internal/api"
	chartusecase "chart_backend/internal/feature/chart/usecase"
	"chart_backend/internal/feature/resolve/domain"
	resolveusecase "chart_backend/internal/feature/resolve/usecase"
)

// suggestionLimit is how many suggestions accompany a resolution miss.
const suggestionLimit = 5

// ResolveUsecase maps a free-text query to an exchange symbol.
// Following Go convention: interfaces are defined by the consumer (handler).
type ResolveUsecase interface {
	Resolve(ctx context.Context, query, market string) (string, error)
}

// ChartUsecase serves snapshot reads and admin-gated refreshes.
type ChartUsecase interface {
	Refresh(ctx context.Context, providerID, symbol, adminKey string) error
	GetChart(ctx context.Context, providerID, symbol string, from, to int64) (json.RawMessage, string, error)
}

// SuggestUsecase returns ranked suggestions for display on a miss.
type SuggestUsecase interface {
	Search(ctx context.Context, query, market string, limit int) []domain.Quote
}

// ChartHandler handles chart HTTP requests: symbol resolution, the optional
// admin refresh, the snapshot read and the window projection.
type ChartHandler struct {
	resolve ResolveUsecase
	chart   ChartUsecase
	suggest SuggestUsecase
}

// NewChartHandler creates a ChartHandler over the given usecases.
func NewChartHandler(resolve ResolveUsecase, chart ChartUsecase, suggest SuggestUsecase) *ChartHandler {
	return &ChartHandler{resolve: resolve, chart: chart, suggest: suggest}
}

// GetChart handles GET /api/chart.
//
// Query parameters: symbol (required; name or ticker), market (kr|us|other),
// from/to (unix seconds, default full range), provider, refresh (1|true|yes)
// and admin_key (required with refresh).
func (h *ChartHandler) GetChart(c *gin.Context) {
	ctx := c.Request.Context()

	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing symbol"})
		return
	}

	market := strings.ToLower(c.Query("market"))
	providerID := strings.ToLower(c.DefaultQuery("provider", chartusecase.DefaultProviderID))
	from := parseEpoch(c.Query("from"))
	to := parseEpoch(c.Query("to"))
	refresh := isTruthy(c.Query("refresh"))
	adminKey := strings.TrimSpace(c.Query("admin_key"))

	resolved, err := h.resolve.Resolve(ctx, symbol, market)
	if err != nil {
		if errors.Is(err, resolveusecase.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, api.NotFoundResponse{
				Error:       "Company name not found",
				Query:       symbol,
				Market:      market,
				Suggestions: h.suggestions(ctx, symbol, market),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	if refresh {
		if err := h.chart.Refresh(ctx, providerID, resolved, adminKey); err != nil {
			switch {
			case errors.Is(err, chartusecase.ErrUnauthorized):
				c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized refresh request"})
			case errors.Is(err, chartusecase.ErrUpstream):
				c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			}
			return
		}
	}

	payload, updatedAt, err := h.chart.GetChart(ctx, providerID, resolved, from, to)
	if err != nil {
		if errors.Is(err, chartusecase.ErrSnapshotNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":  "Snapshot not ready",
				"symbol": resolved,
				"hint":   "관리자 refresh=1 요청으로 먼저 스냅샷을 수집하세요.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("X-Resolved-Symbol", resolved)
	c.Header("X-Snapshot-Updated-At", updatedAt)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// suggestions fetches display suggestions for a miss; failures yield an
// empty list, never an error.
func (h *ChartHandler) suggestions(ctx context.Context, query, market string) []api.Suggestion {
	quotes := h.suggest.Search(ctx, query, market, suggestionLimit)
	out := make([]api.Suggestion, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, api.Suggestion{Symbol: strings.ToUpper(q.Symbol), Name: q.Name()})
	}
	return out
}

// parseEpoch parses a unix-seconds query parameter; anything unparsable
// means "unset".
func parseEpoch(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
