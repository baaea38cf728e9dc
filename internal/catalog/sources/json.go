// Package sources provides the catalog.Source implementations selected by
// catalog.source in the configuration.
package sources

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/common/validation"
	"plot-query-service/internal/models"
)

//go:embed seed.json
var seedCatalog []byte

// JSONSource reads a catalog document: a JSON array of plots checked
// against validation.PlotCatalogSchema.
type JSONSource struct {
	name string
	read func() ([]byte, error)
}

// NewSeedSource serves the built-in three-plot catalog.
func NewSeedSource() *JSONSource {
	return &JSONSource{
		name: "seed",
		read: func() ([]byte, error) { return seedCatalog, nil },
	}
}

// NewFileSource reads the catalog document at path.
func NewFileSource(path string) *JSONSource {
	return &JSONSource{
		name: "file:" + path,
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

func (s *JSONSource) Name() string { return s.name }

func (s *JSONSource) Load(ctx context.Context) ([]models.Plot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.read()
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(s.name, err)
	}
	return DecodeCatalog(s.name, data)
}

// DecodeCatalog validates and decodes a catalog document.
func DecodeCatalog(name string, data []byte) ([]models.Plot, error) {
	result, err := validation.ValidateCatalogJSON(data)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(name, err)
	}
	if !result.Valid {
		return nil, apperrors.NewCatalogInvalidError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("source", name)
	}

	var plots []models.Plot
	if err := json.Unmarshal(data, &plots); err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(name, fmt.Errorf("decode: %w", err))
	}
	return plots, nil
}
