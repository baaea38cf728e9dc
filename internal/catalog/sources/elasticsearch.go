package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchSource reads every plot document of an index, sorted by the
// position field. An index with more than size documents fails the load.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, size int) *ElasticsearchSource {
	return &ElasticsearchSource{client: client, index: index, size: size}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch:" + s.index }

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string      `json:"_id"`
			Source models.Plot `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) buildQuery() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"position": map[string]interface{}{"order": "asc"}},
		},
		"size":             s.size,
		"track_total_hits": true,
	}
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]models.Plot, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(s.buildQuery()); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(s.index, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(s.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("%s", res.String()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("decode response: %w", err))
	}

	if parsed.Hits.Total.Value > len(parsed.Hits.Hits) {
		return nil, errTooLarge(s.Name(), s.size)
	}

	plots := make([]models.Plot, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		plots = append(plots, p)
	}
	return plots, nil
}
