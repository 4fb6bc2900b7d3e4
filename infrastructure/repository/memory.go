package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// DemoUsers devolve os usuários fixos usados sem banco de dados, todos com a mesma senha
func DemoUsers(password string) ([]*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.User{
		{ID: "demo-admin", Name: "Admin Demo", Email: "admin@example.com", PasswordHash: string(hash), RoleID: domain.RoleAdmin, CreatedAt: createdAt},
		{ID: "demo-ana", Name: "Ana Souza", Email: "ana@example.com", PasswordHash: string(hash), RoleID: domain.RoleViewer, CreatedAt: createdAt},
		{ID: "demo-bruno", Name: "Bruno Lima", Email: "bruno@example.com", PasswordHash: string(hash), RoleID: domain.RoleViewer, CreatedAt: createdAt},
	}, nil
}

type memoryUserRepository struct {
	users []*domain.User
}

func NewMemoryUserRepository(users []*domain.User) UserRepository {
	return &memoryUserRepository{users: users}
}

func (r *memoryUserRepository) ListUsers(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *memoryUserRepository) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == userID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

// memorySalesRecordRepository serve as vendas do MockDataCache
type memorySalesRecordRepository struct {
	cache *MockDataCache
	now   func() time.Time
}

func NewMemorySalesRecordRepository(cache *MockDataCache) SalesRecordRepository {
	return &memorySalesRecordRepository{cache: cache, now: time.Now}
}

func (r *memorySalesRecordRepository) ListByUser(_ context.Context, userID string) ([]*domain.SalesRecord, error) {
	return r.cache.Records(userID), nil
}

func (r *memorySalesRecordRepository) ListRecentByUser(_ context.Context, userID string, limit int) ([]*domain.SalesRecord, error) {
	records := r.cache.Records(userID)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *memorySalesRecordRepository) GetByID(_ context.Context, id string) (*domain.SalesRecord, error) {
	return r.cache.Find(id), nil
}

func (r *memorySalesRecordRepository) Create(_ context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	created := record.Clone()
	if created.ID == "" {
		created.ID = utils.GenerateUUID()
	}
	now := r.now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.cache.Add(created)
	return created.Clone(), nil
}

func (r *memorySalesRecordRepository) Update(_ context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	updated := record.Clone()
	updated.UpdatedAt = r.now().UTC()

	if !r.cache.Replace(updated) {
		return nil, ErrNotFound
	}
	return updated.Clone(), nil
}

func (r *memorySalesRecordRepository) Delete(_ context.Context, id string) error {
	if !r.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

type memoryMetricsSnapshotRepository struct {
	mu        sync.RWMutex
	nextID    int64
	snapshots map[string]map[string]*domain.MetricsSnapshot
	now       func() time.Time
}

func NewMemoryMetricsSnapshotRepository() MetricsSnapshotRepository {
	return &memoryMetricsSnapshotRepository{
		snapshots: make(map[string]map[string]*domain.MetricsSnapshot),
		now:       time.Now,
	}
}

func (r *memoryMetricsSnapshotRepository) SaveOrUpdate(_ context.Context, snapshot *domain.MetricsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byDate, exists := r.snapshots[snapshot.UserID]
	if !exists {
		byDate = make(map[string]*domain.MetricsSnapshot)
		r.snapshots[snapshot.UserID] = byDate
	}

	now := r.now().UTC()
	day := snapshot.Date.Format(time.DateOnly)
	stored := *snapshot
	stored.Date = domain.TruncateToDay(snapshot.Date)
	if snapshot.Metrics != nil {
		metrics := *snapshot.Metrics
		stored.Metrics = &metrics
	}

	if current, exists := byDate[day]; exists {
		stored.ID = current.ID
		stored.CreatedAt = current.CreatedAt
	} else {
		r.nextID++
		stored.ID = r.nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	byDate[day] = &stored
	return nil
}

func (r *memoryMetricsSnapshotRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domain.MetricsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]*domain.MetricsSnapshot, 0, len(r.snapshots[userID]))
	for _, snapshot := range r.snapshots[userID] {
		clone := *snapshot
		snapshots = append(snapshots, &clone)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Date.After(snapshots[j].Date)
	})

	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}
