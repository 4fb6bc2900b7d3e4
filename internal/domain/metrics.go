package domain

import "time"

// NotAvailable é o valor sentinela para top produto/região sem vendas concluídas
const NotAvailable = "N/A"

// SalesMetrics são métricas derivadas das vendas de um usuário, nunca persistidas diretamente
type SalesMetrics struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	TopProduct        string  `json:"topProduct"`
	TopRegion         string  `json:"topRegion"`
	GrowthRate        float64 `json:"growthRate"`
	CompletionRate    float64 `json:"completionRate"`
}

// MonthlyRevenue são séries paralelas de rótulos (ex: "Jan 24") e receita arredondada
type MonthlyRevenue struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

type ProductPerformance struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// SalesAnalytics agrupa métricas e séries usadas pelos widgets
type SalesAnalytics struct {
	UserID          string               `json:"user_id"`
	Metrics         SalesMetrics         `json:"metrics"`
	MonthlyRevenue  MonthlyRevenue       `json:"monthly_revenue"`
	RegionRevenue   []RegionRevenue      `json:"region_revenue"`
	TopProducts     []ProductPerformance `json:"top_products"`
	RecentOrders    []*SalesRecord       `json:"recent_orders"`
	CompletedOrders int                  `json:"completed_orders"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// MetricsSnapshot é o histórico diário de métricas gravado pelo agendador
type MetricsSnapshot struct {
	ID        int64         `json:"id"`
	UserID    string        `json:"user_id"`
	Date      time.Time     `json:"date"`
	Metrics   *SalesMetrics `json:"metrics"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
