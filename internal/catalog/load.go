package catalog

import (
	"context"
	"errors"
	"time"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/common/metrics"
	"plot-query-service/internal/models"
)

// Source yields the plots a catalog is built from, in catalog order.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Plot, error)
}

// Load reads src once and builds a catalog from it. Source errors that are
// not already a StandardError are reported as CATALOG_LOAD_FAILED.
func Load(ctx context.Context, src Source, log logger.Logger) (*Catalog, error) {
	start := time.Now()
	log = log.WithFields(map[string]interface{}{"source": src.Name()})

	plots, err := src.Load(ctx)
	if err != nil {
		var stdErr *apperrors.StandardError
		if !errors.As(err, &stdErr) {
			err = apperrors.NewCatalogLoadFailedError(src.Name(), err)
		}
		log.Error("catalog load failed", map[string]interface{}{"error": err})
		return nil, err
	}

	c, err := New(plots)
	if err != nil {
		log.Error("catalog rejected", map[string]interface{}{"error": err})
		return nil, err
	}

	metrics.PlotCatalogSize.Set(float64(c.Len()))
	log.Info("catalog loaded", map[string]interface{}{
		"plots":       c.Len(),
		"fingerprint": c.Fingerprint(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return c, nil
}
