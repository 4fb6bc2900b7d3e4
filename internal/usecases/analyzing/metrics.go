// Package analyzing agrega registros de vendas em métricas e séries para os widgets
package analyzing

import (
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const growthWindow = 30 * 24 * time.Hour

// revenueAggregator acumula receita por chave preservando a ordem de primeira ocorrência
type revenueAggregator struct {
	keys    []string
	revenue map[string]float64
	orders  map[string]int
}

func newRevenueAggregator() *revenueAggregator {
	return &revenueAggregator{
		revenue: make(map[string]float64),
		orders:  make(map[string]int),
	}
}

func (a *revenueAggregator) add(key string, amount float64) {
	if _, exists := a.revenue[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.revenue[key] += amount
	a.orders[key]++
}

// top retorna a chave de maior receita; empates ficam com a primeira encontrada
func (a *revenueAggregator) top() string {
	if len(a.keys) == 0 {
		return domain.NotAvailable
	}

	best := a.keys[0]
	for _, key := range a.keys[1:] {
		if a.revenue[key] > a.revenue[best] {
			best = key
		}
	}
	return best
}

func completedRecords(records []*domain.SalesRecord) []*domain.SalesRecord {
	completed := make([]*domain.SalesRecord, 0, len(records))
	for _, record := range records {
		if record != nil && record.IsCompleted() {
			completed = append(completed, record)
		}
	}
	return completed
}

// CalculateMetrics deriva as métricas de um conjunto de vendas de um usuário.
// Só vendas concluídas entram na receita; totalOrders conta todas.
func CalculateMetrics(records []*domain.SalesRecord, now time.Time) domain.SalesMetrics {
	completed := completedRecords(records)

	totalOrders := 0
	for _, record := range records {
		if record != nil {
			totalOrders++
		}
	}

	products := newRevenueAggregator()
	regions := newRevenueAggregator()
	totalRevenue := 0.0
	for _, record := range completed {
		totalRevenue += record.TotalAmount
		products.add(record.Product, record.TotalAmount)
		regions.add(record.Region, record.TotalAmount)
	}

	denominator := len(completed)
	if denominator == 0 {
		denominator = 1
	}

	completionRate := 0.0
	if totalOrders > 0 {
		completionRate = float64(len(completed)) / float64(totalOrders) * 100
	}

	return domain.SalesMetrics{
		TotalRevenue:      totalRevenue,
		TotalOrders:       totalOrders,
		AverageOrderValue: totalRevenue / float64(denominator),
		TopProduct:        products.top(),
		TopRegion:         regions.top(),
		GrowthRate:        calculateGrowthRate(completed, now),
		CompletionRate:    completionRate,
	}
}

// calculateGrowthRate compara os últimos 30 dias [now-30d, now] com a janela anterior [now-60d, now-30d)
func calculateGrowthRate(completed []*domain.SalesRecord, now time.Time) float64 {
	recentStart := now.Add(-growthWindow)
	previousStart := now.Add(-2 * growthWindow)

	recent, previous := 0.0, 0.0
	for _, record := range completed {
		switch {
		case !record.Date.Before(recentStart) && !record.Date.After(now):
			recent += record.TotalAmount
		case !record.Date.Before(previousStart) && record.Date.Before(recentStart):
			previous += record.TotalAmount
		}
	}

	if previous <= 0 {
		return 0
	}

	return (recent - previous) / previous * 100
}
