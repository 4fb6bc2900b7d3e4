package selling

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/validation"
)

const (
	DefaultRecentLimit  = 10
	DefaultHistoryLimit = 30
)

type SalesService interface {
	GetUsers(ctx context.Context) ([]*domain.User, error)
	GetSalesData(ctx context.Context, userID string) ([]*domain.SalesRecord, error)
	GetRecentOrders(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error)
	GetMetrics(ctx context.Context, userID string) (*domain.SalesMetrics, error)
	GetAnalytics(ctx context.Context, userID string, topLimit, recentLimit int) (*domain.SalesAnalytics, error)
	GetMetricsHistory(ctx context.Context, userID string, limit int) ([]*domain.MetricsSnapshot, error)
	AddSalesRecord(ctx context.Context, input domain.SalesRecordInput) (*domain.SalesRecord, error)
	UpdateSalesRecord(ctx context.Context, id string, update domain.SalesRecordUpdate) (*domain.SalesRecord, error)
	DeleteSalesRecord(ctx context.Context, id string) error
}

// Repositories agrupa os repositórios de uma fonte de dados
type Repositories struct {
	Users     repository.UserRepository
	Sales     repository.SalesRecordRepository
	Snapshots repository.MetricsSnapshotRepository
}

type Option func(*Service)

// WithFallback define os repositórios usados quando a fonte principal falha na leitura
func WithFallback(fallback Repositories) Option {
	return func(s *Service) {
		s.fallback = &fallback
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	primary  Repositories
	fallback *Repositories
	now      func() time.Time
}

func NewService(primary Repositories, opts ...Option) *Service {
	s := &Service{
		primary: primary,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.primary.Users.ListUsers(ctx)
	if err == nil {
		return users, nil
	}

	if s.fallback == nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar usuários")
		return nil, NewSalesError(ErrFetchUsers, apiErrors.ErrDatabaseOperation, "Falha ao listar usuários")
	}

	log.ForContext(ctx).WithError(err).Warn("Falha ao listar usuários na fonte principal, usando dados simulados")
	users, err = s.fallback.Users.ListUsers(ctx)
	if err != nil {
		return nil, NewSalesError(ErrFetchUsers, apiErrors.ErrDatabaseOperation, "Falha ao listar usuários")
	}
	return users, nil
}

func (s *Service) GetSalesData(ctx context.Context, userID string) ([]*domain.SalesRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewSalesError(ErrUserIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	records, err := s.primary.Sales.ListByUser(ctx, userID)
	if err == nil {
		return records, nil
	}

	logger := log.ForContext(ctx).WithField("user_id", userID).WithError(err)
	if s.fallback == nil {
		logger.Error("Erro ao buscar vendas do usuário")
		return nil, NewSalesError(ErrFetchSalesRecords, apiErrors.ErrDatabaseOperation, "Falha ao buscar vendas")
	}

	logger.Warn("Falha ao buscar vendas na fonte principal, usando dados simulados")
	records, err = s.fallback.Sales.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewSalesError(ErrFetchSalesRecords, apiErrors.ErrDatabaseOperation, "Falha ao buscar vendas")
	}
	return records, nil
}

func (s *Service) GetRecentOrders(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewSalesError(ErrUserIDRequired, apiErrors.ErrMissingRequiredData, "")
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	records, err := s.primary.Sales.ListRecentByUser(ctx, userID, limit)
	if err == nil {
		return records, nil
	}

	logger := log.ForContext(ctx).WithField("user_id", userID).WithError(err)
	if s.fallback == nil {
		logger.Error("Erro ao buscar pedidos recentes")
		return nil, NewSalesError(ErrFetchSalesRecords, apiErrors.ErrDatabaseOperation, "Falha ao buscar pedidos recentes")
	}

	logger.Warn("Falha ao buscar pedidos recentes na fonte principal, usando dados simulados")
	records, err = s.fallback.Sales.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, NewSalesError(ErrFetchSalesRecords, apiErrors.ErrDatabaseOperation, "Falha ao buscar pedidos recentes")
	}
	return records, nil
}

func (s *Service) GetMetrics(ctx context.Context, userID string) (*domain.SalesMetrics, error) {
	records, err := s.GetSalesData(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics := analyzing.CalculateMetrics(records, s.now())
	return &metrics, nil
}

// GetAnalytics calcula métricas e séries a partir de todas as vendas do usuário
func (s *Service) GetAnalytics(ctx context.Context, userID string, topLimit, recentLimit int) (*domain.SalesAnalytics, error) {
	records, err := s.GetSalesData(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analyzing.BuildAnalytics(strings.TrimSpace(userID), records, s.now(), topLimit, recentLimit), nil
}

func (s *Service) GetMetricsHistory(ctx context.Context, userID string, limit int) ([]*domain.MetricsSnapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewSalesError(ErrUserIDRequired, apiErrors.ErrMissingRequiredData, "")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	snapshots, err := s.primary.Snapshots.ListByUser(ctx, userID, limit)
	if err != nil {
		log.ForContext(ctx).WithField("user_id", userID).WithError(err).Error("Erro ao buscar histórico de métricas")
		return nil, NewSalesError(ErrFetchMetricsHistory, apiErrors.ErrDatabaseOperation, "Falha ao buscar histórico de métricas")
	}
	return snapshots, nil
}

func (s *Service) AddSalesRecord(ctx context.Context, input domain.SalesRecordInput) (*domain.SalesRecord, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if err := validate(input); err != nil {
		return nil, err
	}

	user, err := s.primary.Users.GetUserByID(ctx, input.UserID)
	if err != nil {
		log.ForContext(ctx).WithField("user_id", input.UserID).WithError(err).Error("Erro ao buscar usuário da venda")
		return nil, NewSalesError(ErrCreateSalesRecord, apiErrors.ErrDatabaseOperation, "Falha ao buscar usuário")
	}
	if user == nil {
		return nil, NewSalesError(ErrUserNotFound, apiErrors.ErrSalesUserNotFound, input.UserID)
	}

	created, err := s.primary.Sales.Create(ctx, input.ToRecord())
	if err != nil {
		log.ForContext(ctx).WithField("user_id", input.UserID).WithError(err).Error("Erro ao criar venda")
		return nil, NewSalesError(ErrCreateSalesRecord, apiErrors.ErrDatabaseOperation, "Falha ao salvar venda")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":         created.UserID,
		"sales_record_id": created.ID,
	}).Info("Venda criada")

	return created, nil
}

func (s *Service) UpdateSalesRecord(ctx context.Context, id string, update domain.SalesRecordUpdate) (*domain.SalesRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewSalesError(ErrSalesRecordIDRequired, apiErrors.ErrMissingRequiredData, "")
	}
	if err := validate(update); err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("sales_record_id", id)

	record, err := s.primary.Sales.GetByID(ctx, id)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar venda")
		return nil, NewSalesError(ErrUpdateSalesRecord, apiErrors.ErrDatabaseOperation, "Falha ao buscar venda")
	}
	if record == nil {
		return nil, NewSalesError(ErrSalesRecordNotFound, apiErrors.ErrSalesRecordNotFound, id)
	}

	update.Apply(record)

	updated, err := s.primary.Sales.Update(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewSalesError(ErrSalesRecordNotFound, apiErrors.ErrSalesRecordNotFound, id)
		}
		logger.WithError(err).Error("Erro ao atualizar venda")
		return nil, NewSalesError(ErrUpdateSalesRecord, apiErrors.ErrDatabaseOperation, "Falha ao atualizar venda")
	}

	logger.Info("Venda atualizada")
	return updated, nil
}

func (s *Service) DeleteSalesRecord(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewSalesError(ErrSalesRecordIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	if err := s.primary.Sales.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewSalesError(ErrSalesRecordNotFound, apiErrors.ErrSalesRecordNotFound, id)
		}
		log.ForContext(ctx).WithField("sales_record_id", id).WithError(err).Error("Erro ao remover venda")
		return NewSalesError(ErrDeleteSalesRecord, apiErrors.ErrDatabaseOperation, "Falha ao remover venda")
	}

	log.ForContext(ctx).WithField("sales_record_id", id).Info("Venda removida")
	return nil
}

func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		salesErr := NewSalesError(ErrInvalidSalesRecord, apiErrors.ErrInvalidRequest, "")
		salesErr.Fields = validation.FromError(err)
		return salesErr
	}
	return nil
}
