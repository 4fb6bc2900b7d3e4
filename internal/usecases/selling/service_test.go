package selling

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type testRepositories struct {
	users     *mocks.MockUserRepository
	sales     *mocks.MockSalesRecordRepository
	snapshots *mocks.MockMetricsSnapshotRepository
}

func (r testRepositories) repositories() Repositories {
	return Repositories{Users: r.users, Sales: r.sales, Snapshots: r.snapshots}
}

func newTestRepositories(ctrl *gomock.Controller) testRepositories {
	return testRepositories{
		users:     mocks.NewMockUserRepository(ctrl),
		sales:     mocks.NewMockSalesRecordRepository(ctrl),
		snapshots: mocks.NewMockMetricsSnapshotRepository(ctrl),
	}
}

func salesCode(t *testing.T, err error) string {
	t.Helper()
	var salesErr *SalesError
	require.True(t, errors.As(err, &salesErr), "esperado SalesError, recebido %v", err)
	return salesErr.Code
}

func sampleRecords() []*domain.SalesRecord {
	return []*domain.SalesRecord{
		{ID: "s1", UserID: "u1", Product: "Laptop", Region: "North", Quantity: 1, UnitPrice: 100, TotalAmount: 100, Status: domain.SalesStatusCompleted, Date: fixedNow.AddDate(0, 0, -1)},
		{ID: "s2", UserID: "u1", Product: "Mouse", Region: "South", Quantity: 1, UnitPrice: 50, TotalAmount: 50, Status: domain.SalesStatusPending, Date: fixedNow.AddDate(0, 0, -2)},
		{ID: "s3", UserID: "u1", Product: "Laptop", Region: "North", Quantity: 1, UnitPrice: 200, TotalAmount: 200, Status: domain.SalesStatusCompleted, Date: fixedNow.AddDate(0, 0, -3)},
	}
}

func validInput() domain.SalesRecordInput {
	return domain.SalesRecordInput{
		UserID:    "u1",
		Date:      time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC),
		Customer:  "Acme",
		Product:   "Laptop",
		Category:  "Electronics",
		Quantity:  3,
		UnitPrice: 10.5,
		Region:    "North",
		Status:    domain.SalesStatusCompleted,
	}
}

func TestGetSalesData_UsaFontePrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)
	fallback := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(sampleRecords(), nil)

	service := NewService(primary.repositories(), WithFallback(fallback.repositories()))

	records, err := service.GetSalesData(context.Background(), " u1 ")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestGetSalesData_FallbackQuandoPrincipalFalha(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)
	fallback := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, errors.New("conexão recusada"))
	fallback.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(sampleRecords()[:1], nil)

	service := NewService(primary.repositories(), WithFallback(fallback.repositories()))

	records, err := service.GetSalesData(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].ID)
}

func TestGetSalesData_SemFallbackRetornaErro(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, errors.New("timeout"))

	service := NewService(primary.repositories())

	_, err := service.GetSalesData(context.Background(), "u1")
	assert.Equal(t, apiErrors.ErrDatabaseOperation, salesCode(t, err))
	assert.True(t, errors.Is(err, ErrFetchSalesRecords))
}

func TestGetSalesData_UserIDObrigatorio(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(newTestRepositories(ctrl).repositories())

	_, err := service.GetSalesData(context.Background(), "  ")
	assert.Equal(t, apiErrors.ErrMissingRequiredData, salesCode(t, err))
}

func TestGetUsers_Fallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)
	fallback := newTestRepositories(ctrl)

	primary.users.EXPECT().ListUsers(gomock.Any()).Return(nil, errors.New("indisponível"))
	fallback.users.EXPECT().ListUsers(gomock.Any()).Return([]*domain.User{{ID: "demo-ana", Name: "Ana"}}, nil)

	service := NewService(primary.repositories(), WithFallback(fallback.repositories()))

	users, err := service.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "demo-ana", users[0].ID)
}

func TestGetRecentOrders_LimitePadrao(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListRecentByUser(gomock.Any(), "u1", DefaultRecentLimit).Return(sampleRecords(), nil)

	service := NewService(primary.repositories())

	records, err := service.GetRecentOrders(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestGetMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(sampleRecords(), nil)

	service := NewService(primary.repositories(), WithClock(func() time.Time { return fixedNow }))

	metrics, err := service.GetMetrics(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 300.0, metrics.TotalRevenue)
	assert.Equal(t, 3, metrics.TotalOrders)
	assert.Equal(t, "Laptop", metrics.TopProduct)
	assert.InDelta(t, 66.67, metrics.CompletionRate, 0.01)
}

func TestGetAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().ListByUser(gomock.Any(), "u1").Return(sampleRecords(), nil)

	service := NewService(primary.repositories(), WithClock(func() time.Time { return fixedNow }))

	analytics, err := service.GetAnalytics(context.Background(), "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "u1", analytics.UserID)
	assert.Len(t, analytics.TopProducts, 1)
	assert.Len(t, analytics.RecentOrders, 2)
	assert.Equal(t, 2, analytics.CompletedOrders)
	assert.Equal(t, fixedNow, analytics.GeneratedAt)
}

func TestGetMetricsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	history := []*domain.MetricsSnapshot{{ID: 1, UserID: "u1", Date: fixedNow}}
	primary.snapshots.EXPECT().ListByUser(gomock.Any(), "u1", DefaultHistoryLimit).Return(history, nil)

	service := NewService(primary.repositories())

	snapshots, err := service.GetMetricsHistory(context.Background(), "u1", -1)
	require.NoError(t, err)
	assert.Equal(t, history, snapshots)
}

func TestAddSalesRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1"}, nil)
	primary.sales.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
			assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), record.Date)
			assert.Equal(t, 31.5, record.TotalAmount)
			created := record.Clone()
			created.ID = "s10"
			return created, nil
		},
	)

	service := NewService(primary.repositories())

	created, err := service.AddSalesRecord(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "s10", created.ID)
}

func TestAddSalesRecord_Validacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(newTestRepositories(ctrl).repositories())

	input := validInput()
	input.Customer = ""
	input.Status = "shipped"

	_, err := service.AddSalesRecord(context.Background(), input)

	var salesErr *SalesError
	require.True(t, errors.As(err, &salesErr))
	assert.Equal(t, apiErrors.ErrInvalidRequest, salesErr.Code)
	assert.Contains(t, salesErr.Fields, "customer")
	assert.Contains(t, salesErr.Fields, "status")
}

func TestAddSalesRecord_UsuarioInexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(nil, nil)

	service := NewService(primary.repositories())

	_, err := service.AddSalesRecord(context.Background(), validInput())
	assert.Equal(t, apiErrors.ErrSalesUserNotFound, salesCode(t, err))
}

func TestUpdateSalesRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().GetByID(gomock.Any(), "s1").Return(sampleRecords()[0], nil)
	primary.sales.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
			return record, nil
		},
	)

	service := NewService(primary.repositories())

	quantity := 4
	updated, err := service.UpdateSalesRecord(context.Background(), "s1", domain.SalesRecordUpdate{Quantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, 400.0, updated.TotalAmount)
}

func TestUpdateSalesRecord_NaoEncontrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := newTestRepositories(ctrl)

	primary.sales.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, nil)

	service := NewService(primary.repositories())

	_, err := service.UpdateSalesRecord(context.Background(), "missing", domain.SalesRecordUpdate{})
	assert.Equal(t, apiErrors.ErrSalesRecordNotFound, salesCode(t, err))
}

func TestDeleteSalesRecord(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{name: "sucesso"},
		{name: "não encontrado", repoErr: repository.ErrNotFound, wantCode: apiErrors.ErrSalesRecordNotFound},
		{name: "falha no banco", repoErr: errors.New("deadlock"), wantCode: apiErrors.ErrDatabaseOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			primary := newTestRepositories(ctrl)
			primary.sales.EXPECT().Delete(gomock.Any(), "s1").Return(tt.repoErr)

			service := NewService(primary.repositories())

			err := service.DeleteSalesRecord(context.Background(), "s1")
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, salesCode(t, err))
		})
	}
}
