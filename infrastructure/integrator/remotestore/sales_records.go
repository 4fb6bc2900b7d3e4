package remotestore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// salesRecordRow é o formato da tabela remota, com a data como "2006-01-02"
type salesRecordRow struct {
	ID          string             `json:"id,omitempty"`
	UserID      string             `json:"user_id"`
	Date        string             `json:"date"`
	Customer    string             `json:"customer"`
	Product     string             `json:"product"`
	Category    string             `json:"category"`
	Quantity    int                `json:"quantity"`
	UnitPrice   float64            `json:"unit_price"`
	TotalAmount float64            `json:"total_amount"`
	Region      string             `json:"region"`
	Status      domain.SalesStatus `json:"status"`
	CreatedAt   *time.Time         `json:"created_at,omitempty"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

func newSalesRecordRow(record *domain.SalesRecord) salesRecordRow {
	return salesRecordRow{
		ID:          record.ID,
		UserID:      record.UserID,
		Date:        record.Date.Format(time.DateOnly),
		Customer:    record.Customer,
		Product:     record.Product,
		Category:    record.Category,
		Quantity:    record.Quantity,
		UnitPrice:   record.UnitPrice,
		TotalAmount: record.TotalAmount,
		Region:      record.Region,
		Status:      record.Status,
	}
}

func (r salesRecordRow) toDomain() (*domain.SalesRecord, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return nil, fmt.Errorf("erro ao converter data da venda %s: %w", r.ID, err)
	}

	record := &domain.SalesRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        date,
		Customer:    r.Customer,
		Product:     r.Product,
		Category:    r.Category,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		TotalAmount: r.TotalAmount,
		Region:      r.Region,
		Status:      r.Status,
	}
	if r.CreatedAt != nil {
		record.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		record.UpdatedAt = *r.UpdatedAt
	}
	return record, nil
}

func toDomainRecords(rows []salesRecordRow) ([]*domain.SalesRecord, error) {
	records := make([]*domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

type salesRecordRepository struct {
	client *Client
}

func NewSalesRecordRepository(client *Client) repository.SalesRecordRepository {
	return &salesRecordRepository{client: client}
}

func (r *salesRecordRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SalesRecord, error) {
	return r.ListRecentByUser(ctx, userID, 0)
}

func (r *salesRecordRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*domain.SalesRecord, error) {
	query := map[string]string{
		"select":  "*",
		"user_id": eq(userID),
		"order":   "date.desc,created_at.desc",
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	var rows []salesRecordRow
	if err := r.client.get(ctx, salesResource, query, &rows); err != nil {
		return nil, err
	}
	return toDomainRecords(rows)
}

func (r *salesRecordRepository) GetByID(ctx context.Context, id string) (*domain.SalesRecord, error) {
	var rows []salesRecordRow
	if err := r.client.get(ctx, salesResource, map[string]string{"select": "*", "id": eq(id), "limit": "1"}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain()
}

func (r *salesRecordRepository) Create(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	var rows []salesRecordRow
	if err := r.client.send(ctx, http.MethodPost, salesResource, nil, newSalesRecordRow(record), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("base remota não devolveu a venda criada")
	}
	return rows[0].toDomain()
}

func (r *salesRecordRepository) Update(ctx context.Context, record *domain.SalesRecord) (*domain.SalesRecord, error) {
	row := newSalesRecordRow(record)
	row.ID = ""

	var rows []salesRecordRow
	if err := r.client.send(ctx, http.MethodPatch, salesResource, map[string]string{"id": eq(record.ID)}, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0].toDomain()
}

func (r *salesRecordRepository) Delete(ctx context.Context, id string) error {
	var rows []salesRecordRow
	if err := r.client.send(ctx, http.MethodDelete, salesResource, map[string]string{"id": eq(id)}, nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return repository.ErrNotFound
	}
	return nil
}
