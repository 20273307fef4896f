// Package handler provides the HTTP handler for the suggestion feature.
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chart_backend/internal/api"
	"chart_backend/internal/feature/resolve/domain"
)

// searchLimit is the maximum number of rows the endpoint returns.
const searchLimit = 10

// SuggestUsecase returns ranked symbol suggestions for a query.
// Following Go convention: interfaces are defined by the consumer (handler).
type SuggestUsecase interface {
	Search(ctx context.Context, query, market string, limit int) []domain.Quote
}

// SuggestHandler handles symbol-search HTTP requests.
type SuggestHandler struct {
	uc SuggestUsecase
}

// NewSuggestHandler creates a SuggestHandler.
func NewSuggestHandler(uc SuggestUsecase) *SuggestHandler {
	return &SuggestHandler{uc: uc}
}

// Search handles GET /api/symbol-search?q=...&market=...
//
// The endpoint is display-only and failure-tolerant: an empty or
// unresolvable query and any upstream failure all produce an empty item
// list with status 200.
func (h *SuggestHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	market := strings.ToLower(c.Query("market"))

	quotes := h.uc.Search(c.Request.Context(), q, market, searchLimit)

	items := make([]api.SearchItem, 0, len(quotes))
	for _, quote := range quotes {
		items = append(items, api.SearchItem{
			Symbol:    strings.ToUpper(quote.Symbol),
			ShortName: quote.ShortName,
			LongName:  quote.LongName,
		})
	}
	c.JSON(http.StatusOK, api.SearchResponse{Items: items})
}
