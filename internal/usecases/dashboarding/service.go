package dashboarding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

//go:generate mockgen -destination=mocks/analytics_provider.go -package=mocks . AnalyticsProvider

// AnalyticsProvider fornece as análises usadas para montar o dashboard de um usuário
type AnalyticsProvider interface {
	GetAnalytics(ctx context.Context, userID string, topLimit, recentLimit int) (*domain.SalesAnalytics, error)
}

type DashboardService interface {
	GetState(ctx context.Context, key string) (*domain.DashboardState, error)
	SetTitle(ctx context.Context, key, title string) (*domain.DashboardState, error)
	AddWidget(ctx context.Context, key string, widgetType domain.WidgetType) (*domain.Widget, error)
	UpdateWidget(ctx context.Context, key, widgetID string, patch WidgetPatch) (*domain.Widget, error)
	DeleteWidget(ctx context.Context, key, widgetID string) error
	SelectWidget(ctx context.Context, key, widgetID string) (*domain.DashboardState, error)
	ClearSelection(ctx context.Context, key string) (*domain.DashboardState, error)
	AddTableRow(ctx context.Context, key, widgetID string) (*domain.Widget, error)
	RemoveTableRow(ctx context.Context, key, widgetID string, index int) (*domain.Widget, error)
	AddTableColumn(ctx context.Context, key, widgetID string) (*domain.Widget, error)
	RemoveTableColumn(ctx context.Context, key, widgetID string, index int) (*domain.Widget, error)
	UpdateTableCell(ctx context.Context, key, widgetID string, row, column int, value string) (*domain.Widget, error)
	UpdateTableHeader(ctx context.Context, key, widgetID string, column int, value string) (*domain.Widget, error)
	LoadUserDashboard(ctx context.Context, key, userID string) (*domain.DashboardState, error)
	Reset(ctx context.Context, key string) (*domain.DashboardState, error)
	Export(ctx context.Context, key string) ([]byte, error)
	Import(ctx context.Context, key string, data []byte) (*domain.DashboardState, error)
	Close()
}

type dashboard struct {
	store     *Store
	persister *Persister
}

type Service struct {
	storage   storage.LayoutStorage
	analytics AnalyticsProvider
	cfg       config.Layout
	now       func() time.Time

	mu         sync.Mutex
	dashboards map[string]*dashboard
}

func NewService(layoutStorage storage.LayoutStorage, analytics AnalyticsProvider, cfg config.Layout) *Service {
	return &Service{
		storage:    layoutStorage,
		analytics:  analytics,
		cfg:        cfg,
		now:        time.Now,
		dashboards: make(map[string]*dashboard),
	}
}

// open devolve o dashboard da chave, lendo o snapshot salvo na primeira vez
func (s *Service) open(ctx context.Context, key string) (*dashboard, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, NewDashboardError(ErrDashboardKeyRequired, apiErrors.ErrMissingRequiredData, key, "")
	}

	s.mu.Lock()
	d, exists := s.dashboards[key]
	s.mu.Unlock()
	if exists {
		return d, nil
	}

	// I/O fora do lock; duas aberturas simultâneas da mesma chave ficam com a primeira
	layout, _ := LoadLayout(ctx, s.storage, key, s.cfg.DefaultTitle, s.now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.dashboards[key]; exists {
		return existing, nil
	}

	persister := NewPersister(key, s.storage, s.cfg.SaveDebounce)
	d = &dashboard{
		store:     NewStore(layout, WithClock(s.now), WithChangeFunc(persister.Schedule)),
		persister: persister,
	}
	s.dashboards[key] = d

	log.ForContext(ctx).WithField("dashboard_key", key).Debugf("Dashboard aberto com %d widgets", len(layout.Widgets))

	return d, nil
}

func state(key string, store *Store) *domain.DashboardState {
	return &domain.DashboardState{
		Key:              key,
		Layout:           store.Snapshot(),
		SelectedWidgetID: store.SelectedWidgetID(),
	}
}

func (s *Service) GetState(ctx context.Context, key string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}
	return state(key, d.store), nil
}

func (s *Service) SetTitle(ctx context.Context, key, title string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}
	d.store.SetTitle(title)
	return state(key, d.store), nil
}

func (s *Service) AddWidget(ctx context.Context, key string, widgetType domain.WidgetType) (*domain.Widget, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	widget, err := d.store.AddWidget(widgetType)
	if err != nil {
		return nil, widgetError(err, key, "")
	}

	log.ForContext(ctx).WithField("dashboard_key", key).Infof("Widget %s (%s) adicionado", widget.ID, widget.Type)
	return widget, nil
}

func (s *Service) UpdateWidget(ctx context.Context, key, widgetID string, patch WidgetPatch) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.UpdateWidget(widgetID, patch)
	})
}

func (s *Service) DeleteWidget(ctx context.Context, key, widgetID string) error {
	d, err := s.open(ctx, key)
	if err != nil {
		return err
	}

	if !d.store.DeleteWidget(widgetID) {
		return NewDashboardError(ErrWidgetNotFound, apiErrors.ErrWidgetNotFound, key, widgetID)
	}

	log.ForContext(ctx).WithField("dashboard_key", key).Infof("Widget %s removido", widgetID)
	return nil
}

func (s *Service) SelectWidget(ctx context.Context, key, widgetID string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	if !d.store.Select(widgetID) {
		return nil, NewDashboardError(ErrWidgetNotFound, apiErrors.ErrWidgetNotFound, key, widgetID)
	}
	return state(key, d.store), nil
}

func (s *Service) ClearSelection(ctx context.Context, key string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}
	d.store.ClearSelection()
	return state(key, d.store), nil
}

func (s *Service) AddTableRow(ctx context.Context, key, widgetID string) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.AddTableRow(widgetID)
	})
}

func (s *Service) RemoveTableRow(ctx context.Context, key, widgetID string, index int) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.RemoveTableRow(widgetID, index)
	})
}

func (s *Service) AddTableColumn(ctx context.Context, key, widgetID string) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.AddTableColumn(widgetID)
	})
}

func (s *Service) RemoveTableColumn(ctx context.Context, key, widgetID string, index int) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.RemoveTableColumn(widgetID, index)
	})
}

func (s *Service) UpdateTableCell(ctx context.Context, key, widgetID string, row, column int, value string) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.UpdateTableCell(widgetID, row, column, value)
	})
}

func (s *Service) UpdateTableHeader(ctx context.Context, key, widgetID string, column int, value string) (*domain.Widget, error) {
	return s.mutateWidget(ctx, key, widgetID, func(store *Store) (*domain.Widget, error) {
		return store.UpdateTableHeader(widgetID, column, value)
	})
}

// mutateWidget converte o "widget ausente" silencioso do Store em erro da API
func (s *Service) mutateWidget(ctx context.Context, key, widgetID string, fn func(store *Store) (*domain.Widget, error)) (*domain.Widget, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	widget, err := fn(d.store)
	if err != nil {
		return nil, widgetError(err, key, widgetID)
	}
	if widget == nil {
		return nil, NewDashboardError(ErrWidgetNotFound, apiErrors.ErrWidgetNotFound, key, widgetID)
	}

	return widget, nil
}

func widgetError(err error, key, widgetID string) error {
	switch {
	case errors.Is(err, ErrInvalidTableIndex):
		return NewDashboardError(ErrInvalidTableIndex, apiErrors.ErrInvalidTableIndex, key, err.Error())
	case errors.Is(err, ErrNotTableWidget), errors.Is(err, domain.ErrWidgetTypeMismatch):
		return NewDashboardError(err, apiErrors.ErrWidgetTypeMismatch, key, widgetID)
	case errors.Is(err, domain.ErrUnknownWidgetType):
		return NewDashboardError(err, apiErrors.ErrInvalidRequest, key, "")
	case errors.Is(err, domain.ErrInvalidWidgetData), errors.Is(err, ErrInvalidPatch):
		return NewDashboardError(ErrInvalidPatch, apiErrors.ErrInvalidFormat, key, err.Error())
	}
	return NewDashboardError(err, apiErrors.ErrInternalServer, key, widgetID)
}

// LoadUserDashboard substitui o layout pelo dashboard gerado a partir das vendas do usuário.
// Se outro carregamento começar antes deste terminar, este é descartado.
func (s *Service) LoadUserDashboard(ctx context.Context, key, userID string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	generation := d.store.BeginLoad()

	analytics, err := s.analytics.GetAnalytics(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s - %s", s.cfg.DefaultTitle, userID)
	if err := d.store.ApplyLoad(generation, BuildUserLayout(title, analytics)); err != nil {
		log.ForContext(ctx).WithField("dashboard_key", key).Warnf("Carregamento do usuário %s descartado", userID)
		return nil, NewDashboardError(err, apiErrors.ErrStaleLoad, key, userID)
	}

	log.ForContext(ctx).WithField("dashboard_key", key).Infof("Dashboard do usuário %s carregado", userID)
	return state(key, d.store), nil
}

// Reset apaga o snapshot salvo e volta ao layout de demonstração
func (s *Service) Reset(ctx context.Context, key string) (*domain.DashboardState, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		log.ForContext(ctx).WithError(err).WithField("dashboard_key", key).Error("Erro ao apagar layout salvo")
		return nil, NewDashboardError(ErrLayoutStorage, apiErrors.ErrLayoutStorage, key, err.Error())
	}

	d.store.Load(DemoLayout(s.cfg.DefaultTitle, s.now().UTC()))

	log.ForContext(ctx).WithField("dashboard_key", key).Info("Dashboard restaurado para o layout de demonstração")
	return state(key, d.store), nil
}

func (s *Service) Export(ctx context.Context, key string) ([]byte, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := EncodeLayout(d.store.Snapshot())
	if err != nil {
		return nil, NewDashboardError(err, apiErrors.ErrInternalServer, key, "")
	}
	return data, nil
}

func (s *Service) Import(ctx context.Context, key string, data []byte) (*domain.DashboardState, error) {
	if s.cfg.MaxImportBytes > 0 && int64(len(data)) > s.cfg.MaxImportBytes {
		return nil, NewDashboardError(ErrLayoutTooLarge, apiErrors.ErrLayoutTooLarge, key, fmt.Sprintf("%d bytes", len(data)))
	}

	layout, err := DecodeLayout(data)
	if err != nil {
		return nil, NewDashboardError(err, apiErrors.ErrInvalidLayout, key, "")
	}

	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	d.store.Load(layout)

	log.ForContext(ctx).WithField("dashboard_key", key).Infof("Layout importado com %d widgets", len(layout.Widgets))
	return state(key, d.store), nil
}

// Close grava todos os snapshots pendentes
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, d := range s.dashboards {
		d.persister.Close()
		if err := d.persister.LastError(); err != nil {
			log.L.WithError(err).WithField("dashboard_key", key).Error("Layout não foi salvo no desligamento")
		}
	}
}
