package remotestore

import (
	"context"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

type userRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		RoleID:       r.RoleID,
		CreatedAt:    r.CreatedAt,
	}
}

type userRepository struct {
	client *Client
}

func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, map[string]string{"order": "name.asc"})
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.first(ctx, map[string]string{"id": eq(userID)})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, map[string]string{"email": eq(email)})
}

func (r *userRepository) first(ctx context.Context, query map[string]string) (*domain.User, error) {
	query["limit"] = "1"
	users, err := r.find(ctx, query)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}

func (r *userRepository) find(ctx context.Context, query map[string]string) ([]*domain.User, error) {
	query["select"] = "*"

	var rows []userRow
	if err := r.client.get(ctx, usersResource, query, &rows); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}
