package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(64) PRIMARY KEY,
		name          VARCHAR(120) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role_id       INTEGER NOT NULL DEFAULT 2,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sales_records (
		id           VARCHAR(64) PRIMARY KEY,
		user_id      VARCHAR(64) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date         DATE NOT NULL,
		customer     VARCHAR(120) NOT NULL,
		product      VARCHAR(120) NOT NULL,
		category     VARCHAR(80) NOT NULL DEFAULT '',
		quantity     INTEGER NOT NULL CHECK (quantity >= 0),
		unit_price   NUMERIC(12, 2) NOT NULL CHECK (unit_price >= 0),
		total_amount NUMERIC(14, 2) NOT NULL,
		region       VARCHAR(80) NOT NULL,
		status       VARCHAR(20) NOT NULL CHECK (status IN ('completed', 'pending', 'cancelled')),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS sales_records_user_date_idx ON sales_records (user_id, date DESC)`,
	`CREATE TABLE IF NOT EXISTS metrics_snapshots (
		id         BIGSERIAL PRIMARY KEY,
		user_id    VARCHAR(64) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date       DATE NOT NULL,
		metrics    JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func createSchema(ctx context.Context, db *postgres.Connection) {
	log.L.Info("Criando tabelas...")

	for _, statement := range schema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			log.L.WithError(err).Fatal("ERRO ao criar tabela")
		}
	}

	log.L.Info("Tabelas criadas com sucesso")
}

// addUniqueConstraintToMetricsSnapshots garante um snapshot por usuário e dia,
// exigido pelo ON CONFLICT do repositório
func addUniqueConstraintToMetricsSnapshots(ctx context.Context, db *postgres.Connection) {
	log.L.Info("Adicionando constraint UNIQUE (user_id, date) na tabela metrics_snapshots...")

	var constraintExists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE table_name = 'metrics_snapshots'
			AND constraint_type = 'UNIQUE'
			AND constraint_name = 'metrics_snapshots_user_date_unique'
		)
	`).Scan(&constraintExists)
	if err != nil {
		log.L.WithError(err).Error("ERRO ao verificar constraint existente")
		return
	}

	if constraintExists {
		log.L.Info("Constraint UNIQUE já existe na tabela metrics_snapshots")
		return
	}

	_, err = db.ExecContext(ctx, "ALTER TABLE metrics_snapshots ADD CONSTRAINT metrics_snapshots_user_date_unique UNIQUE (user_id, date)")
	if err != nil {
		log.L.WithError(err).Error("ERRO ao adicionar constraint UNIQUE")
		return
	}

	log.L.Info("Constraint UNIQUE adicionada com sucesso na tabela metrics_snapshots")
}

func insertUsers(tx *sql.Tx, users []*domain.User) int {
	log.L.Infof("Iniciando inserção de %d usuários...", len(users))
	startTime := time.Now()

	stmt, err := tx.Prepare(`INSERT INTO users (id, name, email, password_hash, role_id) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao preparar statement para users")
	}
	defer stmt.Close()

	successCount := 0
	for i, u := range users {
		result, err := stmt.Exec(u.ID, u.Name, u.Email, u.PasswordHash, u.RoleID)
		if err != nil {
			log.L.WithError(err).Errorf("ERRO ao inserir usuário [%d/%d] %s", i+1, len(users), u.Email)
			continue
		}
		if affected, _ := result.RowsAffected(); affected > 0 {
			successCount++
		}
	}

	log.L.Infof("Inserção de usuários concluída em %v. Novos: %d", time.Since(startTime), successCount)
	return successCount
}

func insertSalesRecords(tx *sql.Tx, userID string, records []*domain.SalesRecord) {
	startTime := time.Now()

	stmt, err := tx.Prepare(`
		INSERT INTO sales_records (id, user_id, date, customer, product, category, quantity, unit_price, total_amount, region, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao preparar statement para sales_records")
	}
	defer stmt.Close()

	successCount := 0
	errorCount := 0
	for i, r := range records {
		_, err := stmt.Exec(
			r.ID, userID, r.Date.Format(time.DateOnly), r.Customer, r.Product, r.Category,
			r.Quantity, r.UnitPrice, r.TotalAmount, r.Region, r.Status,
		)
		if err != nil {
			log.L.WithError(err).Errorf("ERRO ao inserir venda [%d/%d] do usuário %s", i+1, len(records), userID)
			errorCount++
			continue
		}
		successCount++
		if i > 0 && i%25 == 0 {
			log.L.Debugf("Progresso: %d/%d vendas processadas", i+1, len(records))
		}
	}

	log.L.Infof("Vendas do usuário %s inseridas em %v. Sucesso: %d, Erros: %d", userID, time.Since(startTime), successCount, errorCount)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}
	log.Configure(cfg.App.LogLevel, nil)
	log.L.Info("Iniciando script de migração...")

	ctx := context.Background()

	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao conectar ao banco de dados")
	}
	defer db.Close()
	log.L.Info("Conexão com o banco de dados estabelecida com sucesso")

	createSchema(ctx, db)
	addUniqueConstraintToMetricsSnapshots(ctx, db)

	users, err := repository.DemoUsers(cfg.Auth.DemoPassword)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao gerar usuários de demonstração")
	}

	generator := repository.NewMockDataGenerator(cfg.MockData)

	startTime := time.Now()
	err = db.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if insertUsers(tx, users) == 0 {
			log.L.Info("Usuários de demonstração já existiam, vendas não serão geradas novamente")
			return nil
		}

		for _, user := range users {
			insertSalesRecords(tx, user.ID, generator.Generate(user.ID))
		}
		return nil
	})
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao confirmar transação, carga revertida")
	}

	log.L.Infof("Carga inicial concluída em %v!", time.Since(startTime))
}
