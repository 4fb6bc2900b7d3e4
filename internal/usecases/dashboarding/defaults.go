package dashboarding

import (
	"fmt"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const defaultMonthsInChart = 6

var defaultSizes = map[domain.WidgetType]domain.Size{
	domain.WidgetTypeMetric:   {Width: 300, Height: 150},
	domain.WidgetTypeChart:    {Width: 500, Height: 300},
	domain.WidgetTypeTable:    {Width: 600, Height: 300},
	domain.WidgetTypeProgress: {Width: 300, Height: 150},
	domain.WidgetTypeText:     {Width: 400, Height: 200},
}

var defaultTitles = map[domain.WidgetType]string{
	domain.WidgetTypeMetric:   "New Metric",
	domain.WidgetTypeChart:    "New Chart",
	domain.WidgetTypeTable:    "New Table",
	domain.WidgetTypeProgress: "New Progress",
	domain.WidgetTypeText:     "New Text",
}

// DefaultSize devolve o tamanho inicial de um widget recém criado
func DefaultSize(t domain.WidgetType) domain.Size {
	return defaultSizes[t]
}

// DefaultData devolve o conteúdo provisório de um widget recém criado
func DefaultData(t domain.WidgetType, now time.Time) (domain.WidgetData, error) {
	switch t {
	case domain.WidgetTypeMetric:
		return &domain.MetricData{Value: "$0", Change: "0%", Trend: domain.TrendNeutral}, nil

	case domain.WidgetTypeChart:
		labels := make([]string, 0, defaultMonthsInChart)
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := defaultMonthsInChart - 1; i >= 0; i-- {
			labels = append(labels, start.AddDate(0, -i, 0).Format("Jan"))
		}
		return &domain.ChartData{
			Labels: labels,
			Values: make([]float64, defaultMonthsInChart),
		}, nil

	case domain.WidgetTypeTable:
		return &domain.TableData{
			Headers: []string{"Column 1", "Column 2", "Column 3"},
			Rows:    [][]string{{"", "", ""}},
		}, nil

	case domain.WidgetTypeProgress:
		return &domain.ProgressData{Value: 0, Max: 100, Label: "Progress"}, nil

	case domain.WidgetTypeText:
		return &domain.TextData{Content: "Click to edit text"}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWidgetType, t)
}

func defaultConfig(t domain.WidgetType) domain.WidgetConfig {
	cfg := domain.WidgetConfig{Color: "#3b82f6"}
	switch t {
	case domain.WidgetTypeChart:
		cfg.ChartType = domain.ChartTypeLine
		cfg.ShowLegend = true
	case domain.WidgetTypeText:
		cfg.FontSize = 14
	}
	return cfg
}

// NewWidget monta um widget com tamanho, conteúdo e configuração padrão
func NewWidget(id string, t domain.WidgetType, position domain.Position, now time.Time) (*domain.Widget, error) {
	data, err := DefaultData(t, now)
	if err != nil {
		return nil, err
	}

	return &domain.Widget{
		ID:       id,
		Type:     t,
		Title:    defaultTitles[t],
		Position: position,
		Size:     DefaultSize(t),
		Data:     data,
		Config:   defaultConfig(t),
	}, nil
}

// DemoLayout é o layout mostrado quando não existe snapshot salvo ou ele é inválido
func DemoLayout(title string, now time.Time) *domain.DashboardLayout {
	return &domain.DashboardLayout{
		Title:        title,
		LastModified: now,
		Widgets: []*domain.Widget{
			{
				ID:       "demo-revenue",
				Type:     domain.WidgetTypeMetric,
				Title:    "Total Revenue",
				Position: domain.Position{X: 20, Y: 20},
				Size:     DefaultSize(domain.WidgetTypeMetric),
				Data:     &domain.MetricData{Value: "$45,231", Change: "+20.1%", Trend: domain.TrendUp},
				Config:   domain.WidgetConfig{Color: "#10b981"},
			},
			{
				ID:       "demo-orders",
				Type:     domain.WidgetTypeMetric,
				Title:    "Orders",
				Position: domain.Position{X: 340, Y: 20},
				Size:     DefaultSize(domain.WidgetTypeMetric),
				Data:     &domain.MetricData{Value: "1,234", Change: "-4.3%", Trend: domain.TrendDown},
				Config:   domain.WidgetConfig{Color: "#ef4444"},
			},
			{
				ID:       "demo-revenue-chart",
				Type:     domain.WidgetTypeChart,
				Title:    "Monthly Revenue",
				Position: domain.Position{X: 20, Y: 190},
				Size:     DefaultSize(domain.WidgetTypeChart),
				Data: &domain.ChartData{
					Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
					Values: []float64{12000, 19000, 15000, 25000, 22000, 30000},
				},
				Config: domain.WidgetConfig{Color: "#3b82f6", ChartType: domain.ChartTypeLine, ShowLegend: true},
			},
			{
				ID:       "demo-goal",
				Type:     domain.WidgetTypeProgress,
				Title:    "Quarterly Goal",
				Position: domain.Position{X: 540, Y: 190},
				Size:     DefaultSize(domain.WidgetTypeProgress),
				Data:     &domain.ProgressData{Value: 75, Max: 100, Label: "Q2 Target"},
				Config:   domain.WidgetConfig{Color: "#8b5cf6"},
			},
		},
	}
}
