package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	charthandler "chart_backend/internal/feature/chart/transport/handler"
	suggesthandler "chart_backend/internal/feature/suggest/transport/handler"
	"chart_backend/internal/platform/http/handler"
)

func NewRouter(chart *charthandler.ChartHandler, suggest *suggesthandler.SuggestHandler) *gin.Engine {
	r := gin.Default()

	// Browser clients read the resolution metadata headers, so they must
	// be exposed through CORS.
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"X-Resolved-Symbol", "X-Snapshot-Updated-At"},
	}))

	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	api := r.Group("/api")
	{
		api.GET("/chart", chart.GetChart)
		api.GET("/symbol-search", suggest.Search)
	}

	return r
}
