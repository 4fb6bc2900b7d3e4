package domain

import (
	"time"

	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type SalesStatus string

const (
	SalesStatusCompleted SalesStatus = "completed"
	SalesStatusPending   SalesStatus = "pending"
	SalesStatusCancelled SalesStatus = "cancelled"
)

var SalesStatuses = []SalesStatus{
	SalesStatusCompleted,
	SalesStatusPending,
	SalesStatusCancelled,
}

// SalesRecord representa uma venda registrada para um usuário
type SalesRecord struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Date        time.Time   `json:"date"`
	Customer    string      `json:"customer"`
	Product     string      `json:"product"`
	Category    string      `json:"category"`
	Quantity    int         `json:"quantity"`
	UnitPrice   float64     `json:"unit_price"`
	TotalAmount float64     `json:"total_amount"`
	Region      string      `json:"region"`
	Status      SalesStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (r *SalesRecord) IsCompleted() bool {
	return r.Status == SalesStatusCompleted
}

// Recalculate mantém total_amount = quantity * unit_price
func (r *SalesRecord) Recalculate() {
	r.TotalAmount = CalculateTotalAmount(r.Quantity, r.UnitPrice)
}

func (r *SalesRecord) Clone() *SalesRecord {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// SalesRecordInput é o payload de criação de uma venda. O total nunca vem do cliente.
type SalesRecordInput struct {
	UserID    string      `json:"user_id" validate:"required"`
	Date      time.Time   `json:"date" validate:"required"`
	Customer  string      `json:"customer" validate:"required,max=120"`
	Product   string      `json:"product" validate:"required,max=120"`
	Category  string      `json:"category" validate:"max=80"`
	Quantity  int         `json:"quantity" validate:"gte=0"`
	UnitPrice float64     `json:"unit_price" validate:"gte=0"`
	Region    string      `json:"region" validate:"required,max=80"`
	Status    SalesStatus `json:"status" validate:"required,oneof=completed pending cancelled"`
}

// SalesRecordUpdate contém apenas os campos alterados
type SalesRecordUpdate struct {
	Date      *time.Time   `json:"date,omitempty"`
	Customer  *string      `json:"customer,omitempty" validate:"omitempty,min=1,max=120"`
	Product   *string      `json:"product,omitempty" validate:"omitempty,min=1,max=120"`
	Category  *string      `json:"category,omitempty" validate:"omitempty,max=80"`
	Quantity  *int         `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitPrice *float64     `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Region    *string      `json:"region,omitempty" validate:"omitempty,min=1,max=80"`
	Status    *SalesStatus `json:"status,omitempty" validate:"omitempty,oneof=completed pending cancelled"`
}

// Apply aplica as alterações no registro e recalcula o total
func (u *SalesRecordUpdate) Apply(record *SalesRecord) {
	if u.Date != nil {
		record.Date = TruncateToDay(*u.Date)
	}
	if u.Customer != nil {
		record.Customer = *u.Customer
	}
	if u.Product != nil {
		record.Product = *u.Product
	}
	if u.Category != nil {
		record.Category = *u.Category
	}
	if u.Quantity != nil {
		record.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		record.UnitPrice = *u.UnitPrice
	}
	if u.Region != nil {
		record.Region = *u.Region
	}
	if u.Status != nil {
		record.Status = *u.Status
	}
	record.Recalculate()
}

func CalculateTotalAmount(quantity int, unitPrice float64) float64 {
	return utils.RoundWithTwoDecimalPlace(float64(quantity) * unitPrice)
}

// TruncateToDay descarta hora/minuto, registros de venda são por dia de calendário
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SalesRecordRequest é o corpo bruto recebido pela API. Quantidade e preço
// chegam como qualquer valor JSON e são normalizados em ToInput.
type SalesRecordRequest struct {
	UserID    string      `json:"user_id"`
	Date      string      `json:"date"`
	Customer  string      `json:"customer"`
	Product   string      `json:"product"`
	Category  string      `json:"category"`
	Quantity  any         `json:"quantity"`
	UnitPrice any         `json:"unit_price"`
	Region    string      `json:"region"`
	Status    SalesStatus `json:"status"`
}

func (r *SalesRecordRequest) ToInput() (SalesRecordInput, error) {
	input := SalesRecordInput{
		UserID:    r.UserID,
		Customer:  r.Customer,
		Product:   r.Product,
		Category:  r.Category,
		Quantity:  utils.ToQuantity(r.Quantity),
		UnitPrice: utils.ToPrice(r.UnitPrice),
		Region:    r.Region,
		Status:    r.Status,
	}

	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return input, err
	}
	input.Date = *date

	return input, nil
}

// SalesRecordPatch é a versão bruta de SalesRecordUpdate
type SalesRecordPatch struct {
	Date      *string      `json:"date,omitempty"`
	Customer  *string      `json:"customer,omitempty"`
	Product   *string      `json:"product,omitempty"`
	Category  *string      `json:"category,omitempty"`
	Quantity  any          `json:"quantity,omitempty"`
	UnitPrice any          `json:"unit_price,omitempty"`
	Region    *string      `json:"region,omitempty"`
	Status    *SalesStatus `json:"status,omitempty"`
}

func (p *SalesRecordPatch) ToUpdate() (SalesRecordUpdate, error) {
	update := SalesRecordUpdate{
		Customer: p.Customer,
		Product:  p.Product,
		Category: p.Category,
		Region:   p.Region,
		Status:   p.Status,
	}

	if p.Quantity != nil {
		quantity := utils.ToQuantity(p.Quantity)
		update.Quantity = &quantity
	}
	if p.UnitPrice != nil {
		price := utils.ToPrice(p.UnitPrice)
		update.UnitPrice = &price
	}

	if p.Date != nil {
		date, err := utils.ParseDate(*p.Date)
		if err != nil {
			return update, err
		}
		update.Date = date
	}

	return update, nil
}

func (i SalesRecordInput) ToRecord() *SalesRecord {
	record := &SalesRecord{
		UserID:    i.UserID,
		Date:      TruncateToDay(i.Date),
		Customer:  i.Customer,
		Product:   i.Product,
		Category:  i.Category,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		Region:    i.Region,
		Status:    i.Status,
	}
	record.Recalculate()
	return record
}
