package dashboarding

import (
	"fmt"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func formatCurrency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func formatPercent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

func trendOf(v float64) domain.Trend {
	switch {
	case v > 0:
		return domain.TrendUp
	case v < 0:
		return domain.TrendDown
	}
	return domain.TrendNeutral
}

// BuildUserLayout monta o dashboard de um usuário a partir das suas análises de vendas
func BuildUserLayout(title string, analytics *domain.SalesAnalytics) *domain.DashboardLayout {
	metrics := analytics.Metrics

	monthlyValues := make([]float64, 0, len(analytics.MonthlyRevenue.Values))
	for _, v := range analytics.MonthlyRevenue.Values {
		monthlyValues = append(monthlyValues, float64(v))
	}

	regionLabels := make([]string, 0, len(analytics.RegionRevenue))
	regionValues := make([]float64, 0, len(analytics.RegionRevenue))
	for _, region := range analytics.RegionRevenue {
		regionLabels = append(regionLabels, region.Region)
		regionValues = append(regionValues, region.Revenue)
	}

	productRows := make([][]string, 0, len(analytics.TopProducts))
	for _, product := range analytics.TopProducts {
		productRows = append(productRows, []string{
			product.Product,
			formatCurrency(product.Revenue),
			printer.Sprintf("%d", product.Orders),
		})
	}

	summary := []string{
		fmt.Sprintf("Top product: %s", metrics.TopProduct),
		fmt.Sprintf("Top region: %s", metrics.TopRegion),
		fmt.Sprintf("%d of %d orders completed", analytics.CompletedOrders, metrics.TotalOrders),
	}

	return &domain.DashboardLayout{
		Title:        title,
		LastModified: analytics.GeneratedAt,
		Widgets: []*domain.Widget{
			{
				ID:       "user-revenue",
				Type:     domain.WidgetTypeMetric,
				Title:    "Total Revenue",
				Position: domain.Position{X: 20, Y: 20},
				Size:     DefaultSize(domain.WidgetTypeMetric),
				Data: &domain.MetricData{
					Value:  formatCurrency(metrics.TotalRevenue),
					Change: formatPercent(metrics.GrowthRate),
					Trend:  trendOf(metrics.GrowthRate),
				},
				Config: domain.WidgetConfig{Color: "#10b981"},
			},
			{
				ID:       "user-orders",
				Type:     domain.WidgetTypeMetric,
				Title:    "Total Orders",
				Position: domain.Position{X: 340, Y: 20},
				Size:     DefaultSize(domain.WidgetTypeMetric),
				Data: &domain.MetricData{
					Value:  printer.Sprintf("%d", metrics.TotalOrders),
					Change: fmt.Sprintf("%.1f%% completed", metrics.CompletionRate),
					Trend:  domain.TrendNeutral,
				},
				Config: domain.WidgetConfig{Color: "#3b82f6"},
			},
			{
				ID:       "user-aov",
				Type:     domain.WidgetTypeMetric,
				Title:    "Average Order Value",
				Position: domain.Position{X: 660, Y: 20},
				Size:     DefaultSize(domain.WidgetTypeMetric),
				Data: &domain.MetricData{
					Value:  formatCurrency(metrics.AverageOrderValue),
					Change: "0%",
					Trend:  domain.TrendNeutral,
				},
				Config: domain.WidgetConfig{Color: "#f59e0b"},
			},
			{
				ID:       "user-monthly-revenue",
				Type:     domain.WidgetTypeChart,
				Title:    "Monthly Revenue",
				Position: domain.Position{X: 20, Y: 190},
				Size:     DefaultSize(domain.WidgetTypeChart),
				Data: &domain.ChartData{
					Labels: append([]string{}, analytics.MonthlyRevenue.Labels...),
					Values: monthlyValues,
				},
				Config: domain.WidgetConfig{Color: "#3b82f6", ChartType: domain.ChartTypeLine, ShowLegend: true},
			},
			{
				ID:       "user-region-revenue",
				Type:     domain.WidgetTypeChart,
				Title:    "Revenue by Region",
				Position: domain.Position{X: 540, Y: 190},
				Size:     DefaultSize(domain.WidgetTypeChart),
				Data:     &domain.ChartData{Labels: regionLabels, Values: regionValues},
				Config:   domain.WidgetConfig{Color: "#8b5cf6", ChartType: domain.ChartTypeDoughnut, ShowLegend: true},
			},
			{
				ID:       "user-top-products",
				Type:     domain.WidgetTypeTable,
				Title:    "Top Products",
				Position: domain.Position{X: 20, Y: 510},
				Size:     DefaultSize(domain.WidgetTypeTable),
				Data: &domain.TableData{
					Headers: []string{"Product", "Revenue", "Orders"},
					Rows:    productRows,
				},
				Config: domain.WidgetConfig{Color: "#3b82f6"},
			},
			{
				ID:       "user-completion",
				Type:     domain.WidgetTypeProgress,
				Title:    "Completion Rate",
				Position: domain.Position{X: 640, Y: 510},
				Size:     DefaultSize(domain.WidgetTypeProgress),
				Data: &domain.ProgressData{
					Value: metrics.CompletionRate,
					Max:   100,
					Label: "Completed orders",
				},
				Config: domain.WidgetConfig{Color: "#10b981"},
			},
			{
				ID:       "user-summary",
				Type:     domain.WidgetTypeText,
				Title:    "Summary",
				Position: domain.Position{X: 640, Y: 680},
				Size:     DefaultSize(domain.WidgetTypeText),
				Data:     &domain.TextData{Content: strings.Join(summary, "\n")},
				Config:   domain.WidgetConfig{FontSize: 14},
			},
		},
	}
}
