package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

var allRoles = []func(http.Handler) http.Handler{middleware.AllRoles()}

func Healthcheck(dataSource, storageDriver string) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(dataSource, storageDriver),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: allRoles,
		},
	}
}

func Sales(service selling.SalesService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/users/:id/sales",
			Method:      http.MethodGet,
			Handler:     GetUserSales(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/users/:id/sales/recent",
			Method:      http.MethodGet,
			Handler:     GetRecentOrders(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/users/:id/metrics",
			Method:      http.MethodGet,
			Handler:     GetUserMetrics(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/users/:id/metrics/history",
			Method:      http.MethodGet,
			Handler:     GetMetricsHistory(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/users/:id/analytics",
			Method:      http.MethodGet,
			Handler:     GetUserAnalytics(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     CreateSalesRecord(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodPut,
			Handler:     UpdateSalesRecord(service),
			Middlewares: allRoles,
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteSalesRecord(service),
			Middlewares: allRoles,
		},
	}
}

func Dashboards(service dashboarding.DashboardService, maxImportBytes int64) []router.Route {
	const (
		dashboard = "/v1/dashboards/:key"
		widget    = dashboard + "/widgets/:widget_id"
	)

	return []router.Route{
		{Path: dashboard, Method: http.MethodGet, Handler: GetDashboard(service), Middlewares: allRoles},
		{Path: dashboard + "/title", Method: http.MethodPut, Handler: SetDashboardTitle(service), Middlewares: allRoles},
		{Path: dashboard + "/widgets", Method: http.MethodPost, Handler: AddWidget(service), Middlewares: allRoles},
		{Path: widget, Method: http.MethodPatch, Handler: UpdateWidget(service), Middlewares: allRoles},
		{Path: widget, Method: http.MethodDelete, Handler: DeleteWidget(service), Middlewares: allRoles},
		{Path: widget + "/select", Method: http.MethodPost, Handler: SelectWidget(service), Middlewares: allRoles},
		{Path: dashboard + "/selection", Method: http.MethodDelete, Handler: ClearSelection(service), Middlewares: allRoles},
		{Path: widget + "/table/rows", Method: http.MethodPost, Handler: AddTableRow(service), Middlewares: allRoles},
		{Path: widget + "/table/rows/:index", Method: http.MethodDelete, Handler: RemoveTableRow(service), Middlewares: allRoles},
		{Path: widget + "/table/columns", Method: http.MethodPost, Handler: AddTableColumn(service), Middlewares: allRoles},
		{Path: widget + "/table/columns/:index", Method: http.MethodDelete, Handler: RemoveTableColumn(service), Middlewares: allRoles},
		{Path: widget + "/table/cells", Method: http.MethodPut, Handler: UpdateTableCell(service), Middlewares: allRoles},
		{Path: widget + "/table/headers/:index", Method: http.MethodPut, Handler: UpdateTableHeader(service), Middlewares: allRoles},
		{Path: dashboard + "/users/:user_id/load", Method: http.MethodPost, Handler: LoadUserDashboard(service), Middlewares: allRoles},
		{Path: dashboard + "/reset", Method: http.MethodPost, Handler: ResetDashboard(service), Middlewares: allRoles},
		{Path: dashboard + "/export", Method: http.MethodGet, Handler: ExportDashboard(service), Middlewares: allRoles},
		{Path: dashboard + "/import", Method: http.MethodPost, Handler: ImportDashboard(service, maxImportBytes), Middlewares: allRoles},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
