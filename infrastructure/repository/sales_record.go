package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const salesRecordsTable = "sales_records"

var salesRecordColumns = []string{
	"id", "user_id", "date", "customer", "product", "category", "quantity",
	"unit_price", "total_amount", "region", "status", "created_at", "updated_at",
}

type salesRecordRepository struct {
	conn postgres.Queryer
}

func NewSalesRecordRepository(conn postgres.Queryer) SalesRecordRepository {
	return &salesRecordRepository{
		conn: conn,
	}
}

func (r *salesRecordRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SalesRecord, error) {
	return r.list(ctx, userID, 0)
}

func (r *salesRecordRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error) {
	return r.list(ctx, userID, limit)
}

func (r *salesRecordRepository) list(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error) {
	builder := squirrel.
		Select(salesRecordColumns...).
		From(salesRecordsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC", "created_at DESC").
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

	records := make([]*domain.SalesRecord, 0)
	for rows.Next() {
		record, err := scanSalesRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *salesRecordRepository) GetByID(ctx context.Context, id string) (*domain.SalesRecord, error) {
	query, args, err := squirrel.
		Select(salesRecordColumns...).
		From(salesRecordsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record, err := scanSalesRecord(r.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	return record, nil
}

func (r *salesRecordRepository) Create(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	created := record.Clone()
	if created.ID == "" {
		created.ID = utils.GenerateUUID()
	}

	query, args, err := squirrel.
		Insert(salesRecordsTable).
		Columns("id", "user_id", "date", "customer", "product", "category", "quantity", "unit_price", "total_amount", "region", "status").
		Values(
			created.ID,
			created.UserID,
			created.Date.Format(time.DateOnly),
			created.Customer,
			created.Product,
			created.Category,
			created.Quantity,
			created.UnitPrice,
			created.TotalAmount,
			created.Region,
			created.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, wrapPQError("erro ao inserir venda", err)
	}

	return created, nil
}

func (r *salesRecordRepository) Update(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	updated := record.Clone()

	query, args, err := squirrel.
		Update(salesRecordsTable).
		Set("date", updated.Date.Format(time.DateOnly)).
		Set("customer", updated.Customer).
		Set("product", updated.Product).
		Set("category", updated.Category).
		Set("quantity", updated.Quantity).
		Set("unit_price", updated.UnitPrice).
		Set("total_amount", updated.TotalAmount).
		Set("region", updated.Region).
		Set("status", updated.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": updated.ID}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapPQError("erro ao atualizar venda", err)
	}

	return updated, nil
}

func (r *salesRecordRepository) Delete(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Delete(salesRecordsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapPQError("erro ao remover venda", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanSalesRecord(row scanner) (*domain.SalesRecord, error) {
	record := &domain.SalesRecord{}
	var status string

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Date,
		&record.Customer,
		&record.Product,
		&record.Category,
		&record.Quantity,
		&record.UnitPrice,
		&record.TotalAmount,
		&record.Region,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = domain.SalesStatus(status)
	record.Date = domain.TruncateToDay(record.Date)

	return record, nil
}

func wrapPQError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %w (código: %s)", message, pqErr, pqErr.Code)
	}
	return fmt.Errorf("%s: %w", message, err)
}
