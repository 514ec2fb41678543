package repository

import (
	"context"

	"github.com/rpattn/indexjoin/internal/domain"

	"github.com/google/uuid"
)

// SavedQueryRepository defines the interface for saved query operations
type SavedQueryRepository interface {
	Create(ctx context.Context, query domain.SavedQuery) (domain.SavedQuery, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error)
	List(ctx context.Context) ([]domain.SavedQuery, error)
	Update(ctx context.Context, query domain.SavedQuery) (domain.SavedQuery, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavedJoinRepository defines the interface for saved join configuration operations
type SavedJoinRepository interface {
	Create(ctx context.Context, join domain.SavedJoin) (domain.SavedJoin, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedJoin, error)
	List(ctx context.Context) ([]domain.SavedJoin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
