package analyzing

import (
	"math"
	"sort"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const (
	MonthlyBuckets     = 6
	DefaultTopProducts = 5
	DefaultRecentOrder = 10

	monthLabelLayout = "Jan 06"
)

type monthBucket struct {
	start   time.Time
	revenue float64
}

// RevenueByMonth agrupa vendas concluídas por mês e devolve os 6 meses mais recentes em ordem cronológica
func RevenueByMonth(records []*domain.SalesRecord) domain.MonthlyRevenue {
	buckets := make(map[time.Time]*monthBucket)
	for _, record := range completedRecords(records) {
		start := time.Date(record.Date.Year(), record.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		bucket, exists := buckets[start]
		if !exists {
			bucket = &monthBucket{start: start}
			buckets[start] = bucket
		}
		bucket.revenue += record.TotalAmount
	}

	ordered := make([]*monthBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, bucket)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start.Before(ordered[j].start)
	})

	if len(ordered) > MonthlyBuckets {
		ordered = ordered[len(ordered)-MonthlyBuckets:]
	}

	result := domain.MonthlyRevenue{
		Labels: make([]string, 0, len(ordered)),
		Values: make([]int64, 0, len(ordered)),
	}
	for _, bucket := range ordered {
		result.Labels = append(result.Labels, bucket.start.Format(monthLabelLayout))
		result.Values = append(result.Values, int64(math.Round(bucket.revenue)))
	}

	return result
}

// RevenueByRegion soma a receita concluída por região, da maior para a menor
func RevenueByRegion(records []*domain.SalesRecord) []domain.RegionRevenue {
	regions := newRevenueAggregator()
	for _, record := range completedRecords(records) {
		regions.add(record.Region, record.TotalAmount)
	}

	result := make([]domain.RegionRevenue, 0, len(regions.keys))
	for _, region := range regions.keys {
		result = append(result, domain.RegionRevenue{
			Region:  region,
			Revenue: regions.revenue[region],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Revenue > result[j].Revenue
	})

	return result
}

// TopProducts retorna os produtos de maior receita concluída, limitado a limit (padrão 5)
func TopProducts(records []*domain.SalesRecord, limit int) []domain.ProductPerformance {
	if limit <= 0 {
		limit = DefaultTopProducts
	}

	products := newRevenueAggregator()
	for _, record := range completedRecords(records) {
		products.add(record.Product, record.TotalAmount)
	}

	result := make([]domain.ProductPerformance, 0, len(products.keys))
	for _, product := range products.keys {
		result = append(result, domain.ProductPerformance{
			Product: product,
			Revenue: products.revenue[product],
			Orders:  products.orders[product],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Revenue > result[j].Revenue
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}

// RecentOrders retorna as n vendas mais recentes (qualquer status), padrão 10
func RecentOrders(records []*domain.SalesRecord, n int) []*domain.SalesRecord {
	if n <= 0 {
		n = DefaultRecentOrder
	}

	sorted := make([]*domain.SalesRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			sorted = append(sorted, record)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// BuildAnalytics calcula métricas e todas as séries de uma só vez
func BuildAnalytics(userID string, records []*domain.SalesRecord, now time.Time, topLimit, recentLimit int) *domain.SalesAnalytics {
	return &domain.SalesAnalytics{
		UserID:          userID,
		Metrics:         CalculateMetrics(records, now),
		MonthlyRevenue:  RevenueByMonth(records),
		RegionRevenue:   RevenueByRegion(records),
		TopProducts:     TopProducts(records, topLimit),
		RecentOrders:    RecentOrders(records, recentLimit),
		CompletedOrders: len(completedRecords(records)),
		GeneratedAt:     now,
	}
}
