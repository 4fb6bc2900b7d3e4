// Package scheduler contém os serviços de agendamento para consolidação de dados
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUsers limita quantos usuários são processados ao mesmo tempo
const maxConcurrentUsers = 4

type MetricsSnapshotSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

type MetricsSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	userRepo            repository.UserRepository
	salesRepo           repository.SalesRecordRepository
	snapshotRepo        repository.MetricsSnapshotRepository
	config              MetricsSnapshotSyncConfig
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncUsers       int
	lastSyncFailures    int
}

func NewMetricsSnapshotSyncService(
	userRepo repository.UserRepository,
	salesRepo repository.SalesRecordRepository,
	snapshotRepo repository.MetricsSnapshotRepository,
	cfg config.MetricsSnapshotSync,
) *MetricsSnapshotSyncService {
	syncConfig := MetricsSnapshotSyncConfig{
		CronSchedule: cfg.CronSchedule, // Default: 2h da manhã todos os dias
		SyncEnabled:  cfg.Enabled,      // Default: desabilitado
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": syncConfig.CronSchedule,
	}).Info("Configuração do agendador de snapshots de métricas carregada")

	return &MetricsSnapshotSyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		userRepo:     userRepo,
		salesRepo:    salesRepo,
		snapshotRepo: snapshotRepo,
		config:       syncConfig,
		now:          time.Now,
	}
}

func (s *MetricsSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Cron de snapshots de métricas desabilitada por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de snapshots de métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncMetricsSnapshots(ctx); err != nil {
			log.L.WithError(err).Error("Erro na consolidação de snapshots de métricas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshots de métricas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando cron de snapshots de métricas")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncMetricsSnapshots calcula as métricas de cada usuário e grava o snapshot do dia.
// Falhas de um usuário não interrompem os demais.
func (s *MetricsSnapshotSyncService) SyncMetricsSnapshots(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.ForContext(ctx).Warn("Consolidação de snapshots de métricas já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	var processed, failures int64
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastSyncUsers = int(processed)
		s.lastSyncFailures = int(failures)
		s.syncMutex.Unlock()
	}()

	logger := log.ForContext(ctx)
	logger.Info("Iniciando consolidação de snapshots de métricas")

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		logger.WithError(err).Error("Erro ao listar usuários para snapshots de métricas")
		return fmt.Errorf("erro ao listar usuários: %w", err)
	}

	if len(users) == 0 {
		logger.Info("Nenhum usuário encontrado para snapshots de métricas")
		return nil
	}

	snapshotDate := domain.TruncateToDay(s.now())

	var g errgroup.Group
	g.SetLimit(maxConcurrentUsers)
	for _, user := range users {
		g.Go(func() error {
			if err := s.syncUser(ctx, user.ID, snapshotDate); err != nil {
				atomic.AddInt64(&failures, 1)
				logger.WithField("user_id", user.ID).WithError(err).Error("Erro ao gravar snapshot de métricas")
				return err
			}
			atomic.AddInt64(&processed, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("consolidação concluída com %d falha(s): %w", atomic.LoadInt64(&failures), err)
	}

	logger.WithField("users", len(users)).Info("Consolidação de snapshots de métricas concluída")
	return nil
}

func (s *MetricsSnapshotSyncService) syncUser(ctx context.Context, userID string, date time.Time) error {
	records, err := s.salesRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("erro ao buscar vendas: %w", err)
	}

	metrics := analyzing.CalculateMetrics(records, s.now())

	return s.snapshotRepo.SaveOrUpdate(ctx, &domain.MetricsSnapshot{
		UserID:  userID,
		Date:    date,
		Metrics: &metrics,
	})
}

// TriggerManualSync inicia manualmente uma consolidação de snapshots de métricas
func (s *MetricsSnapshotSyncService) TriggerManualSync(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.ForContext(ctx).Info("Consolidação de snapshots já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	log.ForContext(ctx).Info("Iniciando consolidação manual de snapshots de métricas")
	go s.SyncMetricsSnapshots(context.WithoutCancel(ctx))
	return true
}

// GetStatus retorna o status atual do agendador
func (s *MetricsSnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_users":        s.lastSyncUsers,
		"last_sync_failures":     s.lastSyncFailures,
	}
}
