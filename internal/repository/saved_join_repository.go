package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpattn/indexjoin/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type savedJoinRepository struct {
	pool *pgxpool.Pool
}

// NewSavedJoinRepository creates a repository for persisted join configurations
func NewSavedJoinRepository(pool *pgxpool.Pool) SavedJoinRepository {
	return &savedJoinRepository{pool: pool}
}

const savedJoinColumns = "id, name, description, configuration, created_at, updated_at"

func (r *savedJoinRepository) Create(ctx context.Context, join domain.SavedJoin) (domain.SavedJoin, error) {
	configJSON, err := domain.ConfigurationToJSONB(join.Configuration)
	if err != nil {
		return domain.SavedJoin{}, fmt.Errorf("marshal join configuration: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		"INSERT INTO saved_joins (name, description, configuration) VALUES ($1, $2, $3) RETURNING "+savedJoinColumns,
		join.Name, join.Description, configJSON,
	)
	created, err := scanSavedJoin(row)
	if err != nil {
		return domain.SavedJoin{}, fmt.Errorf("create saved join: %w", err)
	}
	return created, nil
}

func (r *savedJoinRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedJoin, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+savedJoinColumns+" FROM saved_joins WHERE id = $1", id,
	)
	join, err := scanSavedJoin(row)
	if err != nil {
		return domain.SavedJoin{}, fmt.Errorf("get saved join: %w", err)
	}
	return join, nil
}

func (r *savedJoinRepository) List(ctx context.Context) ([]domain.SavedJoin, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+savedJoinColumns+" FROM saved_joins ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list saved joins: %w", err)
	}
	defer rows.Close()

	result := make([]domain.SavedJoin, 0)
	for rows.Next() {
		join, err := scanSavedJoin(rows)
		if err != nil {
			return nil, fmt.Errorf("list saved joins: %w", err)
		}
		result = append(result, join)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saved joins: %w", err)
	}
	return result, nil
}

func (r *savedJoinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM saved_joins WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete saved join: %w", err)
	}
	return nil
}

func scanSavedJoin(row rowScanner) (domain.SavedJoin, error) {
	var join domain.SavedJoin
	var configJSON json.RawMessage
	err := row.Scan(&join.ID, &join.Name, &join.Description, &configJSON, &join.CreatedAt, &join.UpdatedAt)
	if err != nil {
		return domain.SavedJoin{}, err
	}

	join.Configuration, err = domain.ConfigurationFromJSONB(configJSON)
	if err != nil {
		return domain.SavedJoin{}, fmt.Errorf("unmarshal join configuration: %w", err)
	}
	return join, nil
}
