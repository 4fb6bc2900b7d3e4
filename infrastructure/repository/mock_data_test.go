package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var referenceNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestGenerator(minRecords, maxRecords int) *MockDataGenerator {
	generator := NewMockDataGenerator(config.MockData{
		MinRecords: minRecords,
		MaxRecords: maxRecords,
		WindowDays: 30,
		Seed:       42,
	})
	generator.now = func() time.Time { return referenceNow }
	return generator
}

func TestMockDataGenerator_Generate(t *testing.T) {
	generator := newTestGenerator(20, 40)

	records := generator.Generate("user-1")

	assert.GreaterOrEqual(t, len(records), 20)
	assert.LessOrEqual(t, len(records), 40)

	windowStart := referenceNow.AddDate(0, 0, -31)
	ids := map[string]struct{}{}
	for i, record := range records {
		assert.Equal(t, "user-1", record.UserID)
		assert.NotEmpty(t, record.Customer)
		assert.NotEmpty(t, record.Product)
		assert.NotEmpty(t, record.Category)
		assert.Contains(t, mockRegions, record.Region)
		assert.Contains(t, domain.SalesStatuses, record.Status)
		assert.GreaterOrEqual(t, record.Quantity, 1)
		assert.Greater(t, record.UnitPrice, 0.0)
		assert.Equal(t, domain.CalculateTotalAmount(record.Quantity, record.UnitPrice), record.TotalAmount)
		assert.True(t, record.Date.After(windowStart), "data fora da janela: %s", record.Date)
		assert.False(t, record.Date.After(referenceNow))

		if i > 0 {
			assert.False(t, record.Date.After(records[i-1].Date), "vendas fora de ordem")
		}

		_, duplicated := ids[record.ID]
		assert.False(t, duplicated)
		ids[record.ID] = struct{}{}
	}
}

func TestMockDataGenerator_FixedCount(t *testing.T) {
	generator := newTestGenerator(7, 7)

	assert.Len(t, generator.Generate("user-1"), 7)
	assert.Len(t, generator.Generate("user-2"), 7)
}

func TestMockDataCache_StableUntilMutation(t *testing.T) {
	ctx := context.Background()
	cache := NewMockDataCache(newTestGenerator(10, 10))
	repo := NewMemorySalesRecordRepository(cache)

	first, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	second, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first[0].Customer = "alterado fora do cache"
	third, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, "alterado fora do cache", third[0].Customer)
}

func TestMockDataCache_LeituraDuranteReordenacao(t *testing.T) {
	cache := NewMockDataCache(newTestGenerator(30, 30))
	records := cache.Records("user-1")
	require.Len(t, records, 30)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			record := records[i%len(records)].Clone()
			record.Date = referenceNow.AddDate(0, 0, -(i*7)%30)
			cache.Replace(record)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			record := records[i%len(records)].Clone()
			cache.Add(&domain.SalesRecord{ID: record.ID + "-extra", UserID: "user-2", Date: referenceNow})
		}
	}()

	for i := 0; i < 200; i++ {
		snapshot := cache.Records("user-1")
		require.Len(t, snapshot, 30)

		seen := make(map[string]struct{}, len(snapshot))
		for _, record := range snapshot {
			_, duplicated := seen[record.ID]
			require.False(t, duplicated, "venda %s repetida", record.ID)
			seen[record.ID] = struct{}{}
		}
	}

	wg.Wait()
}

func TestMemorySalesRecordRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySalesRecordRepository(NewMockDataCache(newTestGenerator(5, 5)))

	record := &domain.SalesRecord{
		UserID:    "user-1",
		Date:      referenceNow.AddDate(0, 0, 1),
		Customer:  "Novo Cliente",
		Product:   "Laptop Pro",
		Quantity:  2,
		UnitPrice: 1000,
		Region:    "North",
		Status:    domain.SalesStatusPending,
	}
	record.Recalculate()

	created, err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	records, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, created.ID, records[0].ID)

	recent, err := repo.ListRecentByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	created.Status = domain.SalesStatusCompleted
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, domain.SalesStatusCompleted, updated.Status)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SalesStatusCompleted, found.Status)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)

	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	users, err := DemoUsers("demo123")
	require.NoError(t, err)
	repo := NewMemoryUserRepository(users)

	listed, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Admin Demo", listed[0].Name)

	user, err := repo.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "demo-ana", user.ID)

	user, err = repo.GetUserByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestMemoryMetricsSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMetricsSnapshotRepository()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveOrUpdate(ctx, &domain.MetricsSnapshot{
			UserID:  "user-1",
			Date:    referenceNow.AddDate(0, 0, -i),
			Metrics: &domain.SalesMetrics{TotalOrders: i},
		}))
	}
	require.NoError(t, repo.SaveOrUpdate(ctx, &domain.MetricsSnapshot{
		UserID:  "user-1",
		Date:    referenceNow,
		Metrics: &domain.SalesMetrics{TotalOrders: 99},
	}))

	snapshots, err := repo.ListByUser(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, 99, snapshots[0].Metrics.TotalOrders)
	assert.Equal(t, int64(1), snapshots[0].ID)

	limited, err := repo.ListByUser(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
