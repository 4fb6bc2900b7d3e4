package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

const (
	defaultTopProducts  = 5
	defaultRecentOrders = 10
)

func ListUsers(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.GetUsers(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar usuários")
			return
		}
		writeJSON(w, r, http.StatusOK, users)
	}
}

func GetUserSales(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := service.GetSalesData(r.Context(), param(r, "id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar vendas")
			return
		}
		writeJSON(w, r, http.StatusOK, records)
	}
}

func GetRecentOrders(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQuery(r, "limit", selling.DefaultRecentLimit)

		records, err := service.GetRecentOrders(r.Context(), param(r, "id"), limit)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar pedidos recentes")
			return
		}
		writeJSON(w, r, http.StatusOK, records)
	}
}

func GetUserMetrics(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := service.GetMetrics(r.Context(), param(r, "id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao calcular métricas")
			return
		}
		writeJSON(w, r, http.StatusOK, metrics)
	}
}

func GetUserAnalytics(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top := intQuery(r, "top", defaultTopProducts)
		recent := intQuery(r, "recent", defaultRecentOrders)

		analytics, err := service.GetAnalytics(r.Context(), param(r, "id"), top, recent)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao calcular análises")
			return
		}
		writeJSON(w, r, http.StatusOK, analytics)
	}
}

func GetMetricsHistory(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQuery(r, "limit", selling.DefaultHistoryLimit)

		history, err := service.GetMetricsHistory(r.Context(), param(r, "id"), limit)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar histórico de métricas")
			return
		}
		writeJSON(w, r, http.StatusOK, history)
	}
}

func CreateSalesRecord(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SalesRecordRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		input, err := req.ToInput()
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		record, err := service.AddSalesRecord(r.Context(), input)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar venda")
			return
		}
		writeJSON(w, r, http.StatusCreated, record)
	}
}

func UpdateSalesRecord(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.SalesRecordPatch
		if err := decodeBody(r, &patch); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		update, err := patch.ToUpdate()
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		record, err := service.UpdateSalesRecord(r.Context(), param(r, "id"), update)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar venda")
			return
		}
		writeJSON(w, r, http.StatusOK, record)
	}
}

func DeleteSalesRecord(service selling.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeleteSalesRecord(r.Context(), param(r, "id")); err != nil {
			writeServiceError(w, r, err, "Erro ao remover venda")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
