package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/indexjoin/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type savedQueryRepository struct {
	pool *pgxpool.Pool
}

// NewSavedQueryRepository creates a repository for named scoping queries
func NewSavedQueryRepository(pool *pgxpool.Pool) SavedQueryRepository {
	return &savedQueryRepository{pool: pool}
}

const savedQueryColumns = "id, name, index_name, query, created_at, updated_at"

func (r *savedQueryRepository) Create(ctx context.Context, query domain.SavedQuery) (domain.SavedQuery, error) {
	body := query.Query
	if len(body) == 0 {
		body = []byte(`{}`)
	}

	row := r.pool.QueryRow(ctx,
		"INSERT INTO saved_queries (name, index_name, query) VALUES ($1, $2, $3) RETURNING "+savedQueryColumns,
		query.Name, query.Index, body,
	)
	created, err := scanSavedQuery(row)
	if err != nil {
		return domain.SavedQuery{}, fmt.Errorf("create saved query: %w", err)
	}
	return created, nil
}

func (r *savedQueryRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+savedQueryColumns+" FROM saved_queries WHERE id = $1", id,
	)
	query, err := scanSavedQuery(row)
	if err != nil {
		return domain.SavedQuery{}, fmt.Errorf("get saved query: %w", err)
	}
	return query, nil
}

func (r *savedQueryRepository) List(ctx context.Context) ([]domain.SavedQuery, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+savedQueryColumns+" FROM saved_queries ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list saved queries: %w", err)
	}
	defer rows.Close()

	result := make([]domain.SavedQuery, 0)
	for rows.Next() {
		query, err := scanSavedQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("list saved queries: %w", err)
		}
		result = append(result, query)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saved queries: %w", err)
	}
	return result, nil
}

func (r *savedQueryRepository) Update(ctx context.Context, query domain.SavedQuery) (domain.SavedQuery, error) {
	body := query.Query
	if len(body) == 0 {
		body = []byte(`{}`)
	}

	row := r.pool.QueryRow(ctx,
		"UPDATE saved_queries SET name = $2, index_name = $3, query = $4, updated_at = now() WHERE id = $1 RETURNING "+savedQueryColumns,
		query.ID, query.Name, query.Index, body,
	)
	updated, err := scanSavedQuery(row)
	if err != nil {
		return domain.SavedQuery{}, fmt.Errorf("update saved query: %w", err)
	}
	return updated, nil
}

func (r *savedQueryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM saved_queries WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete saved query: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row rowScanner) (domain.SavedQuery, error) {
	var query domain.SavedQuery
	err := row.Scan(&query.ID, &query.Name, &query.Index, &query.Query, &query.CreatedAt, &query.UpdatedAt)
	if err != nil {
		return domain.SavedQuery{}, err
	}
	return query, nil
}
