package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const metricsSnapshotsTable = "metrics_snapshots"

type metricsSnapshotRepository struct {
	conn postgres.Queryer
}

func NewMetricsSnapshotRepository(conn postgres.Queryer) MetricsSnapshotRepository {
	return &metricsSnapshotRepository{
		conn: conn,
	}
}

func (r *metricsSnapshotRepository) SaveOrUpdate(ctx context.Context, snapshot *domain.MetricsSnapshot) error {
	var metricsJSON []byte
	var err error

	if snapshot.Metrics != nil {
		metricsJSON, err = json.Marshal(snapshot.Metrics)
		if err != nil {
			return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
		}
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(metricsSnapshotsTable).
		Columns("user_id", "date", "metrics").
		Values(
			snapshot.UserID,
			snapshot.Date.Format(time.DateOnly),
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (user_id, date) DO UPDATE SET
				metrics = EXCLUDED.metrics,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err = r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapPQError("erro ao salvar snapshot de métricas", err)
	}

	return nil
}

func (r *metricsSnapshotRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MetricsSnapshot, error) {
	builder := squirrel.
		Select("id", "user_id", "date", "metrics", "created_at", "updated_at").
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.MetricsSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.MetricsSnapshot{}
		var metricsJSON []byte

		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.UserID,
			&snapshot.Date,
			&metricsJSON,
			&snapshot.CreatedAt,
			&snapshot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
		}

		if metricsJSON != nil {
			snapshot.Metrics = &domain.SalesMetrics{}
			if err := json.Unmarshal(metricsJSON, snapshot.Metrics); err != nil {
				return nil, fmt.Errorf("erro ao deserializar JSON de métricas: %w", err)
			}
		}

		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}
