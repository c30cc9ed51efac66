package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/adapters/database"
	"github.com/mdung/RentMaster-sub000/internal/adapters/search"
	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/evaluation"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/elasticsearch"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/typesense"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/observability"
	"github.com/mdung/RentMaster-sub000/pkg/config"
)

// evaluate runs the golden query set against a live search backend and
// prints aggregate relevance metrics. Wire it into CI with guardrail
// floors to stop ranking regressions from shipping.
func main() {
	goldenPath := flag.String("golden", "config/golden_queries.json", "path to the golden query set")
	minRecall := flag.Float64("min-recall", 0, "fail when avg recall@10 falls below this")
	minMRR := flag.Float64("min-mrr", 0, "fail when avg mrr@10 falls below this")
	minIntent := flag.Float64("min-intent-accuracy", 0, "fail when intent accuracy falls below this")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Server.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var backend repositories.SearchBackend
	switch cfg.Search.Backend {
	case "elasticsearch":
		client, err := elasticsearch.NewClient(&cfg.Elasticsearch)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Elasticsearch client")
		}
		backend = search.NewElasticAdapter(client, cfg.Search.IndexPrefix)
	default:
		client, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Typesense client")
		}
		backend = search.NewTypesenseAdapter(client, cfg.Search.IndexPrefix)
	}

	ctx := context.Background()

	interactionRepo := database.NewInteractionAdapter(pgClient)
	interactionService := services.NewInteractionService(interactionRepo)
	configService := services.NewConfigService(ctx, database.NewConfigAdapter(pgClient))
	interactionService.SetConfig(configService)

	searchService := services.NewSearchService(
		services.NewHeuristicAnalyzer(),
		services.NewQueryBuilderService(),
		services.NewRankingService(interactionRepo),
		backend,
		interactionService,
		configService,
		nil,
		nil,
	)

	queries, err := evaluation.LoadGoldenQueries(*goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load golden queries")
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatal().Err(err).Msg("golden query set is invalid")
	}

	summary, err := evaluation.NewRunner(searchService).Run(ctx, queries)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MinAvgRecallAt10:  *minRecall,
		MinAvgMRRAt10:     *minMRR,
		MinIntentAccuracy: *minIntent,
	})
	if violations := guardrails.Check(summary); len(violations) > 0 {
		for _, v := range violations {
			log.Error().Msg(v)
		}
		os.Exit(1)
	}
}
