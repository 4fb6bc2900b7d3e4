package dashboarding

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func testLayoutConfig() config.Layout {
	return config.Layout{
		SaveDebounce:   time.Hour,
		DefaultTitle:   "Sales Dashboard",
		MaxImportBytes: 1 << 20,
	}
}

func sampleAnalytics(userID string) *domain.SalesAnalytics {
	return &domain.SalesAnalytics{
		UserID: userID,
		Metrics: domain.SalesMetrics{
			TotalRevenue:      350,
			TotalOrders:       3,
			AverageOrderValue: 175,
			TopProduct:        "Laptop",
			TopRegion:         "North",
			GrowthRate:        12.5,
			CompletionRate:    66.67,
		},
		MonthlyRevenue:  domain.MonthlyRevenue{Labels: []string{"May 24", "Jun 24"}, Values: []int64{100, 250}},
		RegionRevenue:   []domain.RegionRevenue{{Region: "North", Revenue: 250}, {Region: "South", Revenue: 100}},
		TopProducts:     []domain.ProductPerformance{{Product: "Laptop", Revenue: 250, Orders: 1}},
		CompletedOrders: 2,
		GeneratedAt:     fixedNow,
	}
}

func dashboardCode(t *testing.T, err error) string {
	t.Helper()
	var dashErr *DashboardError
	require.True(t, errors.As(err, &dashErr), "esperado DashboardError, recebido %v", err)
	return dashErr.Code
}

func newTestService(t *testing.T) (*Service, *mocks.MockAnalyticsProvider, storage.LayoutStorage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	analytics := mocks.NewMockAnalyticsProvider(ctrl)
	fileStorage := storage.NewFileStorage(afero.NewMemMapFs(), "/layouts")

	service := NewService(fileStorage, analytics, testLayoutConfig())
	service.now = func() time.Time { return fixedNow }
	return service, analytics, fileStorage
}

func TestService_OpensDemoLayout(t *testing.T) {
	service, _, _ := newTestService(t)

	state, err := service.GetState(context.Background(), "main")
	require.NoError(t, err)

	assert.Equal(t, "main", state.Key)
	assert.Equal(t, DemoLayout("Sales Dashboard", fixedNow), state.Layout)
	assert.Empty(t, state.SelectedWidgetID)

	_, err = service.GetState(context.Background(), "  ")
	assert.Equal(t, apiErrors.ErrMissingRequiredData, dashboardCode(t, err))
}

func TestService_WidgetLifecycle(t *testing.T) {
	ctx := context.Background()
	service, _, fileStorage := newTestService(t)

	widget, err := service.AddWidget(ctx, "main", domain.WidgetTypeText)
	require.NoError(t, err)

	state, err := service.SelectWidget(ctx, "main", widget.ID)
	require.NoError(t, err)
	assert.Equal(t, widget.ID, state.SelectedWidgetID)

	updated, err := service.UpdateWidget(ctx, "main", widget.ID, WidgetPatch{
		Size:       &domain.Size{Width: 800, Height: 100},
		DataFields: map[string]any{"content": "Resumo do trimestre"},
	})
	require.NoError(t, err)
	assert.Equal(t, &domain.TextData{Content: "Resumo do trimestre"}, updated.Data)

	require.NoError(t, service.DeleteWidget(ctx, "main", widget.ID))

	state, err = service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, state.SelectedWidgetID)
	assert.Len(t, state.Layout.Widgets, len(DemoLayout("", fixedNow).Widgets))

	_, err = service.UpdateWidget(ctx, "main", widget.ID, WidgetPatch{})
	assert.Equal(t, apiErrors.ErrWidgetNotFound, dashboardCode(t, err))
	assert.Equal(t, apiErrors.ErrWidgetNotFound, dashboardCode(t, service.DeleteWidget(ctx, "main", widget.ID)))

	service.Close()

	layout, fromStorage := LoadLayout(ctx, fileStorage, "main", "", fixedNow)
	assert.True(t, fromStorage)
	assert.Equal(t, state.Layout.Widgets, layout.Widgets)
}

func TestService_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.AddWidget(ctx, "main", "gauge")
	assert.Equal(t, apiErrors.ErrInvalidRequest, dashboardCode(t, err))

	_, err = service.AddTableRow(ctx, "main", "demo-revenue")
	assert.Equal(t, apiErrors.ErrWidgetTypeMismatch, dashboardCode(t, err))

	table, err := service.AddWidget(ctx, "main", domain.WidgetTypeTable)
	require.NoError(t, err)

	_, err = service.RemoveTableRow(ctx, "main", table.ID, 9)
	assert.Equal(t, apiErrors.ErrInvalidTableIndex, dashboardCode(t, err))

	_, err = service.UpdateWidget(ctx, "main", table.ID, WidgetPatch{DataFields: map[string]any{"rows": []any{[]any{"só uma"}}}})
	assert.Equal(t, apiErrors.ErrInvalidFormat, dashboardCode(t, err))

	_, err = service.SelectWidget(ctx, "main", "missing")
	assert.Equal(t, apiErrors.ErrWidgetNotFound, dashboardCode(t, err))
}

func TestService_LoadUserDashboard(t *testing.T) {
	ctx := context.Background()
	service, analytics, _ := newTestService(t)

	analytics.EXPECT().
		GetAnalytics(gomock.Any(), "user-1", 0, 0).
		Return(sampleAnalytics("user-1"), nil)

	state, err := service.LoadUserDashboard(ctx, "main", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Sales Dashboard - user-1", state.Layout.Title)
	require.NoError(t, state.Layout.Validate())

	byID := map[string]*domain.Widget{}
	for _, widget := range state.Layout.Widgets {
		byID[widget.ID] = widget
	}

	assert.Equal(t, &domain.MetricData{Value: "$350.00", Change: "+12.5%", Trend: domain.TrendUp}, byID["user-revenue"].Data)
	assert.Equal(t, &domain.ChartData{Labels: []string{"May 24", "Jun 24"}, Values: []float64{100, 250}}, byID["user-monthly-revenue"].Data)
	assert.Equal(t, [][]string{{"Laptop", "$250.00", "1"}}, byID["user-top-products"].Data.(*domain.TableData).Rows)
	assert.Equal(t, 66.67, byID["user-completion"].Data.(*domain.ProgressData).Value)
}

func TestService_LoadUserDashboardDiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	service, analytics, _ := newTestService(t)

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	analytics.EXPECT().
		GetAnalytics(gomock.Any(), "slow-user", 0, 0).
		DoAndReturn(func(context.Context, string, int, int) (*domain.SalesAnalytics, error) {
			close(slowStarted)
			<-releaseSlow
			return sampleAnalytics("slow-user"), nil
		})
	analytics.EXPECT().
		GetAnalytics(gomock.Any(), "fast-user", 0, 0).
		Return(sampleAnalytics("fast-user"), nil)

	slowErr := make(chan error, 1)
	go func() {
		_, err := service.LoadUserDashboard(ctx, "main", "slow-user")
		slowErr <- err
	}()

	<-slowStarted
	state, err := service.LoadUserDashboard(ctx, "main", "fast-user")
	require.NoError(t, err)
	assert.Equal(t, "Sales Dashboard - fast-user", state.Layout.Title)

	close(releaseSlow)
	err = <-slowErr
	assert.ErrorIs(t, err, ErrStaleLoad)
	assert.Equal(t, apiErrors.ErrStaleLoad, dashboardCode(t, err))

	state, err = service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Sales Dashboard - fast-user", state.Layout.Title)
}

func TestService_ExportImportReset(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.SetTitle(ctx, "origem", "Exportado")
	require.NoError(t, err)
	_, err = service.AddWidget(ctx, "origem", domain.WidgetTypeChart)
	require.NoError(t, err)

	data, err := service.Export(ctx, "origem")
	require.NoError(t, err)

	state, err := service.Import(ctx, "destino", data)
	require.NoError(t, err)
	assert.Equal(t, "Exportado", state.Layout.Title)

	source, err := service.GetState(ctx, "origem")
	require.NoError(t, err)
	assert.Equal(t, source.Layout.Widgets, state.Layout.Widgets)

	_, err = service.Import(ctx, "destino", []byte(`{"title":"x","widgets":[{"id":"a","type":"gauge"}]}`))
	assert.Equal(t, apiErrors.ErrInvalidLayout, dashboardCode(t, err))

	service.cfg.MaxImportBytes = 10
	_, err = service.Import(ctx, "destino", data)
	assert.Equal(t, apiErrors.ErrLayoutTooLarge, dashboardCode(t, err))

	state, err = service.Reset(ctx, "destino")
	require.NoError(t, err)
	assert.Equal(t, DemoLayout("Sales Dashboard", fixedNow).Widgets, state.Layout.Widgets)
}

func TestService_ResetApagaSnapshotSalvo(t *testing.T) {
	ctx := context.Background()
	service, _, layoutStorage := newTestService(t)

	_, err := service.SetTitle(ctx, "main", "Personalizado")
	require.NoError(t, err)
	service.dashboards["main"].persister.Flush()

	_, err = layoutStorage.Load(ctx, "main")
	require.NoError(t, err)

	state, err := service.Reset(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, DemoLayout("Sales Dashboard", fixedNow), state.Layout)

	_, err = layoutStorage.Load(ctx, "main")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestService_ResetComArmazenamentoIndisponivel(t *testing.T) {
	ctx := context.Background()
	service := NewService(failingStorage{}, nil, testLayoutConfig())
	service.now = func() time.Time { return fixedNow }

	_, err := service.SetTitle(ctx, "main", "Personalizado")
	require.NoError(t, err)

	_, err = service.Reset(ctx, "main")
	assert.ErrorIs(t, err, ErrLayoutStorage)
	assert.Equal(t, apiErrors.ErrLayoutStorage, dashboardCode(t, err))

	state, err := service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Personalizado", state.Layout.Title)
}

type slowStorage struct {
	storage.LayoutStorage
	started chan struct{}
	release chan struct{}
}

func (s slowStorage) Load(_ context.Context, key string) ([]byte, error) {
	if key == "lento" {
		close(s.started)
		<-s.release
	}
	return nil, storage.ErrSnapshotNotFound
}

func TestService_AberturaLentaNaoBloqueiaOutrasChaves(t *testing.T) {
	ctx := context.Background()
	layoutStorage := slowStorage{started: make(chan struct{}), release: make(chan struct{})}
	service := NewService(layoutStorage, nil, testLayoutConfig())

	slowDone := make(chan error, 1)
	go func() {
		_, err := service.GetState(ctx, "lento")
		slowDone <- err
	}()
	<-layoutStorage.started

	fastDone := make(chan error, 1)
	go func() {
		_, err := service.GetState(ctx, "rapido")
		fastDone <- err
	}()

	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		close(layoutStorage.release)
		t.Fatal("abertura de outra chave ficou esperando a leitura lenta")
	}

	close(layoutStorage.release)
	require.NoError(t, <-slowDone)
}

func TestService_AberturasSimultaneasCompartilhamDashboard(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	const workers = 10
	opened := make(chan *dashboard, workers)
	for i := 0; i < workers; i++ {
		go func() {
			d, err := service.open(ctx, "mesma")
			assert.NoError(t, err)
			opened <- d
		}()
	}

	first := <-opened
	for i := 1; i < workers; i++ {
		assert.Same(t, first, <-opened)
	}
	assert.Len(t, service.dashboards, 1)
}
