// Package service runs plot queries on behalf of every transport.
package service

import (
	"context"
	"time"

	"plot-query-service/internal/cache"
	"plot-query-service/internal/catalog"
	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/common/metrics"
	"plot-query-service/internal/common/observability"
	"plot-query-service/internal/models"
	"plot-query-service/internal/query"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Transports that call Query.
const (
	TransportHTTP   = "http"
	TransportWorker = "worker"
	TransportCLI    = "cli"
)

// ResultCache stores the ordered ids matched by a filter.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, ids []string) error
}

type Options struct {
	// StrictValidation rejects malformed prices instead of ignoring them.
	StrictValidation bool
	Cache            ResultCache
	Observability    *observability.Observability
}

// PlotService is safe for concurrent use.
type PlotService struct {
	catalog *catalog.Catalog
	opts    Options
	logger  logger.Logger
}

func NewPlotService(c *catalog.Catalog, opts Options, log logger.Logger) *PlotService {
	return &PlotService{
		catalog: c,
		opts:    opts,
		logger:  log.WithFields(map[string]interface{}{"component": "plot-service"}),
	}
}

func (s *PlotService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Query parses raw, filters the catalog and returns the matching plots in
// catalog order. It only fails in strict mode, with INVALID_FILTER_FORMAT.
func (s *PlotService) Query(ctx context.Context, transport string, raw map[string]string) (*models.PlotList, error) {
	start := time.Now()
	ctx, span := s.opts.Observability.StartSpan(ctx, "plots.query", attribute.String("transport", transport))
	defer span.End()

	spec, err := s.parse(raw)
	if err != nil {
		stdErr := apperrors.NewInvalidFilterFormatError(err)
		span.RecordError(stdErr)
		span.SetStatus(codes.Error, string(stdErr.Code))
		s.record(ctx, transport, metrics.OutcomeInvalid, start)
		s.logger.Warn("rejected query", map[string]interface{}{
			"transport": transport,
			"error":     err.Error(),
		})
		return nil, stdErr
	}

	plots := s.evaluate(ctx, spec)

	s.record(ctx, transport, metrics.OutcomeOK, start)
	metrics.PlotQueryResults.Observe(float64(len(plots)))
	span.SetAttributes(attribute.Int("plots.count", len(plots)))

	s.logger.Debug("query served", map[string]interface{}{
		"transport": transport,
		"filters":   spec.Fields(),
		"count":     len(plots),
	})
	return models.NewPlotList(plots), nil
}

func (s *PlotService) parse(raw map[string]string) (query.FilterSpec, error) {
	if s.opts.StrictValidation {
		return query.ParseStrict(raw)
	}
	return query.Parse(raw), nil
}

func (s *PlotService) record(ctx context.Context, transport, outcome string, start time.Time) {
	elapsed := time.Since(start)
	metrics.PlotQueries.WithLabelValues(transport, outcome).Inc()
	metrics.PlotQueryDuration.WithLabelValues(transport).Observe(elapsed.Seconds())
	s.opts.Observability.RecordQuery(ctx, transport, outcome, elapsed)
}

// evaluate consults the cache for filtered queries. Cache failures fall back
// to filtering the catalog directly.
func (s *PlotService) evaluate(ctx context.Context, spec query.FilterSpec) []models.Plot {
	if spec.IsEmpty() || s.opts.Cache == nil {
		return query.Filter(s.catalog.List(), spec)
	}

	key := cache.Key(s.catalog.Fingerprint(), spec.Key())

	ids, hit, err := s.opts.Cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PlotQueryCache.WithLabelValues(metrics.CacheError).Inc()
		s.logger.Warn("result cache read failed", map[string]interface{}{"error": err})
	case hit:
		if plots, ok := s.resolve(ids); ok {
			metrics.PlotQueryCache.WithLabelValues(metrics.CacheHit).Inc()
			return plots
		}
		metrics.PlotQueryCache.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.PlotQueryCache.WithLabelValues(metrics.CacheMiss).Inc()
	}

	plots := query.Filter(s.catalog.List(), spec)

	if err == nil {
		if err := s.opts.Cache.Set(ctx, key, models.NewPlotList(plots).IDs()); err != nil {
			metrics.PlotQueryCache.WithLabelValues(metrics.CacheError).Inc()
			s.logger.Warn("result cache write failed", map[string]interface{}{"error": err})
		}
	}
	return plots
}

// resolve maps cached ids back to catalog plots. Any unknown id makes the
// entry unusable.
func (s *PlotService) resolve(ids []string) ([]models.Plot, bool) {
	plots := make([]models.Plot, 0, len(ids))
	for _, id := range ids {
		p, ok := s.catalog.Get(id)
		if !ok {
			return nil, false
		}
		plots = append(plots, p)
	}
	return plots, true
}
