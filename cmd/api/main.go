package main

import (
	"context"
	"os"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/integrator/remotestore"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

const (
	rateLimitCleanupInterval = time.Minute
	rateLimitMaxIdle         = 10 * time.Minute
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel, os.Stdout)
	log.L.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockRepos, err := newMockRepositories(cfg)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao preparar dados simulados")
	}

	var (
		primary = mockRepos
		options []selling.Option
	)

	switch cfg.App.DataSource {
	case config.DataSourcePostgres:
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		primary = selling.Repositories{
			Users:     repository.NewUserRepository(pgConn),
			Sales:     repository.NewSalesRecordRepository(pgConn),
			Snapshots: repository.NewMetricsSnapshotRepository(pgConn),
		}
		options = append(options, selling.WithFallback(mockRepos))

	case config.DataSourceRemote:
		client, err := remotestore.NewClient(cfg.RemoteStore)
		if err != nil {
			log.L.WithError(err).Fatal("Erro ao configurar o armazenamento remoto")
		}

		primary = selling.Repositories{
			Users:     remotestore.NewUserRepository(client),
			Sales:     remotestore.NewSalesRecordRepository(client),
			Snapshots: mockRepos.Snapshots,
		}
		options = append(options, selling.WithFallback(mockRepos))
	}

	log.L.WithField("driver", cfg.App.DataSource).Info("Fonte de dados de vendas configurada")

	salesService := selling.NewService(primary, options...)
	authenticator := authenticating.NewService(primary.Users, cfg.SecretKey)

	layoutStorage, err := storage.New(ctx, cfg.Layout, cfg.Redis)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao configurar o armazenamento de layouts")
	}
	defer layoutStorage.Close()

	log.L.WithField("driver", layoutStorage.Driver).Info("Armazenamento de layouts configurado")

	dashboardService := dashboarding.NewService(layoutStorage.Storage, salesService, cfg.Layout)
	defer dashboardService.Close()

	metricsSnapshotSyncService := scheduler.NewMetricsSnapshotSyncService(
		primary.Users,
		primary.Sales,
		primary.Snapshots,
		cfg.MetricsSnapshotSync,
	)

	if err := metricsSnapshotSyncService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de snapshots de métricas")
	} else {
		log.L.Info("Agendador de snapshots de métricas iniciado com sucesso")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	rateLimiter.StartCleanup(ctx, rateLimitCleanupInterval, rateLimitMaxIdle)

	server, err := api.New(
		cfg,
		layoutStorage.Driver,
		authenticator,
		salesService,
		dashboardService,
		handler.CronJobServices{
			MetricsSnapshotSyncService: metricsSnapshotSyncService,
		},
		rateLimiter,
	)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// newMockRepositories monta os repositórios em memória usados como fonte principal
// em modo mock e como reserva das demais fontes
func newMockRepositories(cfg *config.Config) (selling.Repositories, error) {
	users, err := repository.DemoUsers(cfg.Auth.DemoPassword)
	if err != nil {
		return selling.Repositories{}, err
	}

	cache := repository.NewMockDataCache(repository.NewMockDataGenerator(cfg.MockData))

	return selling.Repositories{
		Users:     repository.NewMemoryUserRepository(users),
		Sales:     repository.NewMemorySalesRecordRepository(cache),
		Snapshots: repository.NewMemoryMetricsSnapshotRepository(),
	}, nil
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
