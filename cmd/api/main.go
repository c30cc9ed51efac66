package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/adapters/cache"
	"github.com/mdung/RentMaster-sub000/internal/adapters/database"
	"github.com/mdung/RentMaster-sub000/internal/adapters/search"
	"github.com/mdung/RentMaster-sub000/internal/api/handlers"
	"github.com/mdung/RentMaster-sub000/internal/api/routes"
	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/elasticsearch"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/redis"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/typesense"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/observability"
	"github.com/mdung/RentMaster-sub000/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; the service degrades to uncached operation.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	backend, err := newSearchBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search backend")
	}

	interactionRepo := database.NewInteractionAdapter(pgClient)
	configRepo := database.NewConfigAdapter(pgClient)
	metricsRepo := database.NewMetricsAdapter(pgClient)
	if cacheProvider != nil {
		metricsRepo = database.NewCachedMetricsAdapter(metricsRepo, cacheProvider)
	}
	documentSource := database.NewDocumentAdapter(pgClient)

	interactionService := services.NewInteractionService(interactionRepo)
	configService := services.NewConfigService(ctx, configRepo)
	interactionService.SetConfig(configService)

	analyzer := services.NewHeuristicAnalyzer()
	if cacheProvider != nil {
		analyzer.SetCache(cacheProvider)
	}

	searchService := services.NewSearchService(
		analyzer,
		services.NewQueryBuilderService(),
		services.NewRankingService(interactionRepo),
		backend,
		interactionService,
		configService,
		cacheProvider,
		metrics,
	)
	suggestionService := services.NewSuggestionService(backend, interactionService, cacheProvider)
	suggestionService.SetConfig(configService)
	insightProvider := services.NewHeuristicInsightProvider(metricsRepo, interactionService, configService, cacheProvider)
	recommendationService := services.NewRecommendationService(metricsRepo, interactionService)
	indexService := services.NewIndexService(documentSource, backend)

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService, suggestionService, interactionService),
		handlers.NewAnalyticsHandler(interactionService),
		handlers.NewInsightHandler(insightProvider),
		handlers.NewRecommendationHandler(recommendationService),
		handlers.NewAdminHandler(configService, indexService),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server stopped")
}

// newSearchBackend selects the engine from SEARCH_BACKEND and ensures
// its schema exists.
func newSearchBackend(ctx context.Context, cfg *config.Config) (repositories.SearchBackend, error) {
	var backend repositories.SearchBackend

	switch cfg.Search.Backend {
	case "elasticsearch":
		client, err := elasticsearch.NewClient(&cfg.Elasticsearch)
		if err != nil {
			return nil, err
		}
		backend = search.NewElasticAdapter(client, cfg.Search.IndexPrefix)
	default:
		client, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			return nil, err
		}
		backend = search.NewTypesenseAdapter(client, cfg.Search.IndexPrefix)
	}

	if err := backend.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Str("backend", cfg.Search.Backend).Msg("failed to ensure search schema")
	}
	log.Info().Str("backend", cfg.Search.Backend).Msg("search backend initialized")
	return backend, nil
}
