package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/adapters/database"
	"github.com/mdung/RentMaster-sub000/internal/adapters/search"
	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/elasticsearch"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/typesense"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/observability"
	"github.com/mdung/RentMaster-sub000/pkg/config"
)

// indexer rebuilds the search index from the back-office tables. Run
// it once after deploying a new index schema, or on demand when the
// index drifts from the database.
func main() {
	indexType := flag.String("type", "", "index only one type (property, tenant, document)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Server.Env)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

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

	indexer := services.NewIndexService(database.NewDocumentAdapter(pgClient), backend)

	var indexed int
	if *indexType != "" {
		indexed, err = indexer.Reindex(ctx, *indexType)
	} else {
		indexed, err = indexer.ReindexAll(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("reindex failed")
	}
	log.Info().Int("indexed", indexed).Msg("reindex finished")
}
