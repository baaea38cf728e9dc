package sources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plot-query-service/internal/common/config"
	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

func plotIDs(plots []models.Plot) []string {
	ids := make([]string, len(plots))
	for i, p := range plots {
		ids[i] = p.ID
	}
	return ids
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plots.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Seed and File Sources
// ==========================

func TestSeedSource(t *testing.T) {
	src := NewSeedSource()
	assert.Equal(t, "seed", src.Name())

	plots, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, plots, 3)
	assert.Equal(t, []string{"1", "2", "3"}, plotIDs(plots))
	assert.Equal(t, models.Plot{
		ID:          "1",
		Title:       "Scenic Mountain View Plot",
		Size:        1200,
		Price:       150000,
		Location:    "Mountain Valley, CO",
		Description: "Beautiful plot with panoramic mountain views",
	}, plots[0])
	assert.Equal(t, "Downtown Metro, NY", plots[2].Location)
}

func TestFileSource(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, `[
			{"id":"b","title":"B","description":"","location":"Somewhere","size":10,"price":5},
			{"id":"a","title":"A","description":"","location":"Elsewhere","size":20,"price":0}
		]`)
		plots, err := NewFileSource(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, plotIDs(plots))
	})

	t.Run("schema violation", func(t *testing.T) {
		path := writeFile(t, `[{"id":"a","title":"A","description":"","location":"x","size":-1,"price":5}]`)
		_, err := NewFileSource(path).Load(context.Background())
		requireCode(t, err, apperrors.ErrCodeCatalogInvalid)
		assert.Contains(t, err.Error(), "size")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, `[{"id":`)
		_, err := NewFileSource(path).Load(context.Background())
		requireCode(t, err, apperrors.ErrCodeCatalogLoadFailed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
		requireCode(t, err, apperrors.ErrCodeCatalogLoadFailed)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileSource(writeFile(t, `[]`)).Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// ==========================
// Postgres Source
// ==========================

const expectedPostgresQuery = `SELECT id, title, description, location, size, price FROM "plots" ORDER BY position LIMIT $1`

func TestPostgresSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "location", "size", "price"}).
		AddRow("2", "Lakefront Property", "Direct lake access with private beach", "Lake District, MN", 800.0, 200000.0).
		AddRow("1", "Scenic Mountain View Plot", nil, "Mountain Valley, CO", 1200.0, 150000.0)
	mock.ExpectQuery(expectedPostgresQuery).WithArgs(101).WillReturnRows(rows)

	src := NewPostgresSource(db, "plots", 100)
	assert.Equal(t, "postgres:plots", src.Name())

	plots, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, plotIDs(plots))
	assert.Equal(t, "", plots[1].Description)
	assert.Equal(t, 200000.0, plots[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(expectedPostgresQuery).WithArgs(11).WillReturnError(errors.New("relation \"plots\" does not exist"))

	_, err = NewPostgresSource(db, "plots", 10).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeQueryExecutionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_RowError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "location", "size", "price"}).
		AddRow("1", "t", "d", "l", 1.0, 1.0).
		RowError(0, errors.New("connection reset"))
	mock.ExpectQuery(expectedPostgresQuery).WithArgs(11).WillReturnRows(rows)

	_, err = NewPostgresSource(db, "plots", 10).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeQueryExecutionFailed)
}

func TestPostgresSource_MoreRowsThanLimit(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "location", "size", "price"}).
		AddRow("1", "a", "", "x", 1.0, 1.0).
		AddRow("2", "b", "", "y", 1.0, 1.0).
		AddRow("3", "c", "", "z", 1.0, 1.0)
	mock.ExpectQuery(expectedPostgresQuery).WithArgs(3).WillReturnRows(rows)

	_, err = NewPostgresSource(db, "plots", 2).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeCatalogInvalid)
	assert.Contains(t, err.Error(), "catalog.max_records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_ExactlyLimit(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "location", "size", "price"}).
		AddRow("1", "a", "", "x", 1.0, 1.0).
		AddRow("2", "b", "", "y", 1.0, 1.0)
	mock.ExpectQuery(expectedPostgresQuery).WithArgs(3).WillReturnRows(rows)

	plots, err := NewPostgresSource(db, "plots", 2).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, plots, 2)
}

// ==========================
// Elasticsearch Source
// ==========================

func newFakeElasticsearch(t *testing.T, search http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_search") {
			search(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"}}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func TestElasticsearchSource_Load(t *testing.T) {
	var gotBody string
	client := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plots/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"3","_source":{"title":"Urban Development Land","size":500,"price":300000,"location":"Downtown Metro, NY","description":"d"}},
			{"_id":"doc-1","_source":{"id":"1","title":"Scenic Mountain View Plot","size":1200,"price":150000,"location":"Mountain Valley, CO","description":"d"}}
		]}}`)
	})

	src := NewElasticsearchSource(client, "plots", 500)
	assert.Equal(t, "elasticsearch:plots", src.Name())

	plots, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, plotIDs(plots))
	assert.Equal(t, 300000.0, plots[0].Price)
	assert.Contains(t, gotBody, `"position"`)
	assert.Contains(t, gotBody, `"size":500`)
	assert.Contains(t, gotBody, `"track_total_hits":true`)
}

func TestElasticsearchSource_MoreDocumentsThanSize(t *testing.T) {
	client := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":3,"relation":"eq"},"hits":[
			{"_id":"1","_source":{"title":"a","size":1,"price":1,"location":"x","description":""}},
			{"_id":"2","_source":{"title":"b","size":1,"price":1,"location":"y","description":""}}
		]}}`)
	})

	_, err := NewElasticsearchSource(client, "plots", 2).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeCatalogInvalid)
}

func TestElasticsearchSource_IndexNotFound(t *testing.T) {
	client := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})

	_, err := NewElasticsearchSource(client, "plots", 10).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeIndexNotFound)
}

func TestElasticsearchSource_SearchError(t *testing.T) {
	client := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"search_phase_execution_exception"},"status":400}`)
	})

	_, err := NewElasticsearchSource(client, "plots", 10).Load(context.Background())
	requireCode(t, err, apperrors.ErrCodeSearchQueryFailed)
}

// ==========================
// Open
// ==========================

func TestOpen(t *testing.T) {
	t.Run("seed", func(t *testing.T) {
		cfg := &config.Config{Catalog: config.CatalogConfig{Source: config.SourceSeed}}
		src, closeFn, err := Open(context.Background(), cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.Equal(t, "seed", src.Name())
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{Catalog: config.CatalogConfig{Source: config.SourceFile, Path: "/tmp/plots.json"}}
		src, _, err := Open(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "file:/tmp/plots.json", src.Name())
	})

	t.Run("elasticsearch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Elastic-Product", "Elasticsearch")
		}))
		defer srv.Close()

		cfg := &config.Config{Catalog: config.CatalogConfig{Source: config.SourceElasticsearch, Index: "plots", MaxRecords: 10}}
		cfg.Database.Elasticsearch.URL = srv.URL
		src, _, err := Open(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "elasticsearch:plots", src.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{Catalog: config.CatalogConfig{Source: "ftp"}}
		_, closeFn, err := Open(context.Background(), cfg)
		assert.Error(t, err)
		assert.NoError(t, closeFn())
	})
}
