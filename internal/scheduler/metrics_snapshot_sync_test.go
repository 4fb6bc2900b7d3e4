package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var processingDate = time.Date(2024, 6, 30, 2, 0, 0, 0, time.UTC)

func newTestSyncService(t *testing.T) (*MetricsSnapshotSyncService, *mocks.MockUserRepository, *mocks.MockSalesRecordRepository, *mocks.MockMetricsSnapshotRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	users := mocks.NewMockUserRepository(ctrl)
	sales := mocks.NewMockSalesRecordRepository(ctrl)
	snapshots := mocks.NewMockMetricsSnapshotRepository(ctrl)

	service := NewMetricsSnapshotSyncService(users, sales, snapshots, config.MetricsSnapshotSync{CronSchedule: "0 2 * * *"})
	service.now = func() time.Time { return processingDate }

	return service, users, sales, snapshots
}

func TestSyncMetricsSnapshots_GravaSnapshotPorUsuario(t *testing.T) {
	service, users, sales, snapshots := newTestSyncService(t)

	users.EXPECT().ListUsers(gomock.Any()).Return([]*domain.User{{ID: "u1"}, {ID: "u2"}}, nil)
	sales.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*domain.SalesRecord{
		{Product: "Laptop", Region: "North", TotalAmount: 100, Status: domain.SalesStatusCompleted, Date: processingDate},
		{Product: "Mouse", Region: "South", TotalAmount: 50, Status: domain.SalesStatusPending, Date: processingDate},
	}, nil)
	sales.EXPECT().ListByUser(gomock.Any(), "u2").Return(nil, nil)

	var mu sync.Mutex
	saved := map[string]*domain.MetricsSnapshot{}
	snapshots.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, snapshot *domain.MetricsSnapshot) error {
			mu.Lock()
			defer mu.Unlock()
			saved[snapshot.UserID] = snapshot
			return nil
		},
	)

	require.NoError(t, service.SyncMetricsSnapshots(context.Background()))

	require.Len(t, saved, 2)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), saved["u1"].Date)
	assert.Equal(t, 100.0, saved["u1"].Metrics.TotalRevenue)
	assert.Equal(t, 2, saved["u1"].Metrics.TotalOrders)
	assert.Equal(t, domain.NotAvailable, saved["u2"].Metrics.TopProduct)

	status := service.GetStatus()
	assert.Equal(t, 2, status["last_sync_users"])
	assert.Equal(t, 0, status["last_sync_failures"])
	assert.Equal(t, false, status["sync_running"])
}

func TestSyncMetricsSnapshots_FalhaDeUmUsuarioNaoInterrompeOsDemais(t *testing.T) {
	service, users, sales, snapshots := newTestSyncService(t)

	users.EXPECT().ListUsers(gomock.Any()).Return([]*domain.User{{ID: "u1"}, {ID: "u2"}}, nil)
	sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, errors.New("timeout"))
	sales.EXPECT().ListByUser(gomock.Any(), "u2").Return(nil, nil)
	snapshots.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(nil)

	err := service.SyncMetricsSnapshots(context.Background())
	assert.Error(t, err)

	status := service.GetStatus()
	assert.Equal(t, 1, status["last_sync_users"])
	assert.Equal(t, 1, status["last_sync_failures"])
}

func TestSyncMetricsSnapshots_ErroAoListarUsuarios(t *testing.T) {
	service, users, _, _ := newTestSyncService(t)

	users.EXPECT().ListUsers(gomock.Any()).Return(nil, errors.New("conexão recusada"))

	assert.Error(t, service.SyncMetricsSnapshots(context.Background()))
}

func TestStart_DesabilitadoNaoAgenda(t *testing.T) {
	service, _, _, _ := newTestSyncService(t)

	require.NoError(t, service.Start(context.Background()))
	assert.Empty(t, service.scheduler.Jobs())
}
