// Package catalog holds the immutable, ordered set of plots served by every
// transport. A Catalog is built once at startup and shared without locks.
package catalog

import (
	"fmt"
	"strconv"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/models"

	"github.com/cespare/xxhash/v2"
)

// Catalog is safe for concurrent use; nothing mutates it after New returns.
type Catalog struct {
	plots       []models.Plot
	byID        map[string]int
	fingerprint string
}

// New copies plots into a catalog, preserving their order. It rejects empty
// or duplicate ids, non-positive sizes and negative prices.
func New(plots []models.Plot) (*Catalog, error) {
	c := &Catalog{
		plots: make([]models.Plot, len(plots)),
		byID:  make(map[string]int, len(plots)),
	}
	copy(c.plots, plots)

	for i, p := range c.plots {
		if p.ID == "" {
			return nil, apperrors.NewCatalogInvalidError("plot id must not be empty").
				WithMetadata("index", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, apperrors.NewDuplicatePlotIDError(p.ID)
		}
		if !(p.Size > 0) {
			return nil, apperrors.NewCatalogInvalidError(fmt.Sprintf("plot %s: size must be positive", p.ID)).
				WithMetadata("index", i)
		}
		if !(p.Price >= 0) {
			return nil, apperrors.NewCatalogInvalidError(fmt.Sprintf("plot %s: price must not be negative", p.ID)).
				WithMetadata("index", i)
		}
		c.byID[p.ID] = i
	}

	c.fingerprint = fingerprint(c.plots)
	return c, nil
}

// List returns the plots in insertion order. The slice is a copy.
func (c *Catalog) List() []models.Plot {
	out := make([]models.Plot, len(c.plots))
	copy(out, c.plots)
	return out
}

func (c *Catalog) Len() int {
	return len(c.plots)
}

// Get looks a plot up by id.
func (c *Catalog) Get(id string) (models.Plot, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Plot{}, false
	}
	return c.plots[i], true
}

// Fingerprint is a content hash of the catalog. Two catalogs with the same
// plots in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func fingerprint(plots []models.Plot) string {
	d := xxhash.New()
	buf := make([]byte, 0, 256)
	for _, p := range plots {
		buf = buf[:0]
		for _, s := range []string{p.ID, p.Title, p.Description, p.Location} {
			buf = strconv.AppendQuote(buf, s)
			buf = append(buf, 0)
		}
		buf = strconv.AppendFloat(buf, p.Size, 'g', -1, 64)
		buf = append(buf, 0)
		buf = strconv.AppendFloat(buf, p.Price, 'g', -1, 64)
		buf = append(buf, '\n')
		_, _ = d.Write(buf)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
