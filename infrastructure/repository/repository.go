package repository

import (
	"context"
	"errors"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks . UserRepository,SalesRecordRepository,MetricsSnapshotRepository

var ErrNotFound = errors.New("registro não encontrado")

type UserRepository interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// GetUserByID devolve (nil, nil) quando o usuário não existe
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SalesRecordRepository interface {
	// ListByUser devolve as vendas do usuário da mais recente para a mais antiga
	ListByUser(ctx context.Context, userID string) ([]*domain.SalesRecord, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error)
	GetByID(ctx context.Context, id string) (*domain.SalesRecord, error)
	Create(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error)
	Update(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error)
	Delete(ctx context.Context, id string) error
}

type MetricsSnapshotRepository interface {
	SaveOrUpdate(ctx context.Context, snapshot *domain.MetricsSnapshot) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MetricsSnapshot, error)
}
