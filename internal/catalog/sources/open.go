package sources

import (
	"context"
	"fmt"

	"plot-query-service/internal/catalog"
	"plot-query-service/internal/common/config"
	"plot-query-service/internal/common/database"
	apperrors "plot-query-service/internal/common/errors"
)

// errTooLarge reports a source holding more plots than catalog.max_records.
// A truncated catalog is never served.
func errTooLarge(name string, limit int) error {
	return apperrors.NewCatalogInvalidError(
		fmt.Sprintf("%s holds more than %d plots, raise catalog.max_records", name, limit),
	).WithMetadata("source", name)
}

// Open returns the source selected by cfg.Catalog.Source. The close func
// releases any connection Open created and is never nil.
func Open(ctx context.Context, cfg *config.Config) (catalog.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Catalog.Source {
	case config.SourceSeed:
		return NewSeedSource(), noop, nil

	case config.SourceFile:
		return NewFileSource(cfg.Catalog.Path), noop, nil

	case config.SourcePostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresSource(pg.DB, cfg.Catalog.Table, cfg.Catalog.MaxRecords), pg.Close, nil

	case config.SourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, noop, err
		}
		if err := es.Ping(ctx); err != nil {
			return nil, noop, err
		}
		return NewElasticsearchSource(es.Client, cfg.Catalog.Index, cfg.Catalog.MaxRecords), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
