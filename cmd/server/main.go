package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"chart_backend/internal/app/router"
	charthandler "chart_backend/internal/feature/chart/transport/handler"
	chartusecase "chart_backend/internal/feature/chart/usecase"
	resolveadapters "chart_backend/internal/feature/resolve/adapters"
	resolveusecase "chart_backend/internal/feature/resolve/usecase"
	suggesthandler "chart_backend/internal/feature/suggest/transport/handler"
	suggestusecase "chart_backend/internal/feature/suggest/usecase"
	"chart_backend/internal/platform/externalapi/yahoo"
	platformhttp "chart_backend/internal/platform/http"
	"chart_backend/internal/platform/kv"
	platformredis "chart_backend/internal/platform/redis"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	// Redis backs the snapshot store; without it the ordinary chart path
	// has nothing to serve, so this is fatal.
	rdb, err := platformredis.NewRedisClient(context.Background(), platformredis.LoadConfig())
	if err != nil {
		log.Fatal("Redis is required for snapshot storage: ", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	// Outbound clients
	yahooCfg := yahoo.LoadConfig()
	yahooClient := yahoo.NewClient(yahooCfg, platformhttp.NewHTTPClient(yahooCfg.Timeout))
	scrapeClient := platformhttp.NewHTTPClient(30 * time.Second)

	// Symbol resolution tiers
	alias := resolveadapters.NewAliasIndexLoader(resolveadapters.LoadAliasConfig(), scrapeClient)
	static := resolveadapters.NewStaticTable()
	universe := resolveadapters.NewUniverseLoader(resolveadapters.LoadUniverseConfig(), scrapeClient)
	resolver := resolveusecase.NewResolver(alias, static, universe, yahooClient)

	// Snapshot store and usecases
	adminKey := os.Getenv("SNAPSHOT_ADMIN_KEY")
	if adminKey == "" {
		log.Println("[WARN] SNAPSHOT_ADMIN_KEY is not set. Refresh requests will be rejected.")
	}
	store := kv.NewRedisStore(rdb)
	chartUC := chartusecase.NewChartUsecase(store, map[string]chartusecase.ChartProvider{
		chartusecase.DefaultProviderID: yahooClient,
	}, adminKey)
	suggestUC := suggestusecase.NewSuggestUsecase(yahooClient)

	// Handlers
	chartH := charthandler.NewChartHandler(resolver, chartUC, suggestUC)
	suggestH := suggesthandler.NewSuggestHandler(suggestUC)

	r := router.NewRouter(chartH, suggestH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
