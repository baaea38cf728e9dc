package sources

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/models"

	"github.com/lib/pq"
)

// PostgresSource reads plots from a table ordered by its position column. A
// table with more than limit rows fails the load.
type PostgresSource struct {
	db    *sql.DB
	table string
	limit int
}

func NewPostgresSource(db *sql.DB, table string, limit int) *PostgresSource {
	return &PostgresSource{db: db, table: table, limit: limit}
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) query() string {
	return fmt.Sprintf(
		"SELECT id, title, description, location, size, price FROM %s ORDER BY position LIMIT $1",
		pq.QuoteIdentifier(s.table),
	)
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.Plot, error) {
	query := s.query()

	// one extra row tells a full table from an oversized one
	rows, err := s.db.QueryContext(ctx, query, s.limit+1)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(query, err)
	}
	defer rows.Close()

	var plots []models.Plot
	for rows.Next() {
		var (
			p           models.Plot
			description sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &description, &p.Location, &p.Size, &p.Price); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(query, fmt.Errorf("scan: %w", err))
		}
		p.Description = description.String
		plots = append(plots, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(query, err)
	}
	if len(plots) > s.limit {
		return nil, errTooLarge(s.Name(), s.limit)
	}
	return plots, nil
}
