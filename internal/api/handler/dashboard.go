package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

type SetTitleRequest struct {
	Title string `json:"title"`
}

type AddWidgetRequest struct {
	Type domain.WidgetType `json:"type"`
}

type UpdateTableCellRequest struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

type UpdateTableHeaderRequest struct {
	Value string `json:"value"`
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(param(r, "index"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Índice inválido", nil)
		return 0, false
	}
	return index, true
}

func GetDashboard(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := service.GetState(r.Context(), param(r, "key"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao carregar dashboard")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func SetDashboardTitle(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetTitleRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		state, err := service.SetTitle(r.Context(), param(r, "key"), req.Title)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao alterar título")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func AddWidget(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddWidgetRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		widget, err := service.AddWidget(r.Context(), param(r, "key"), req.Type)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao adicionar widget")
			return
		}
		writeJSON(w, r, http.StatusCreated, widget)
	}
}

func UpdateWidget(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch dashboarding.WidgetPatch
		if err := decodeBody(r, &patch); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		widget, err := service.UpdateWidget(r.Context(), param(r, "key"), param(r, "widget_id"), patch)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar widget")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func DeleteWidget(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeleteWidget(r.Context(), param(r, "key"), param(r, "widget_id")); err != nil {
			writeServiceError(w, r, err, "Erro ao remover widget")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func SelectWidget(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := service.SelectWidget(r.Context(), param(r, "key"), param(r, "widget_id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao selecionar widget")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func ClearSelection(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := service.ClearSelection(r.Context(), param(r, "key"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao limpar seleção")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func AddTableRow(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, err := service.AddTableRow(r.Context(), param(r, "key"), param(r, "widget_id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao adicionar linha")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func RemoveTableRow(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}

		widget, err := service.RemoveTableRow(r.Context(), param(r, "key"), param(r, "widget_id"), index)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao remover linha")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func AddTableColumn(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, err := service.AddTableColumn(r.Context(), param(r, "key"), param(r, "widget_id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao adicionar coluna")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func RemoveTableColumn(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}

		widget, err := service.RemoveTableColumn(r.Context(), param(r, "key"), param(r, "widget_id"), index)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao remover coluna")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func UpdateTableCell(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTableCellRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		widget, err := service.UpdateTableCell(r.Context(), param(r, "key"), param(r, "widget_id"), req.Row, req.Column, req.Value)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar célula")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func UpdateTableHeader(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}

		var req UpdateTableHeaderRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		widget, err := service.UpdateTableHeader(r.Context(), param(r, "key"), param(r, "widget_id"), index, req.Value)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar cabeçalho")
			return
		}
		writeJSON(w, r, http.StatusOK, widget)
	}
}

func LoadUserDashboard(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := service.LoadUserDashboard(r.Context(), param(r, "key"), param(r, "user_id"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao carregar dashboard do usuário")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func ResetDashboard(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := service.Reset(r.Context(), param(r, "key"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao restaurar dashboard")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}

func ExportDashboard(service dashboarding.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := param(r, "key")

		data, err := service.Export(r.Context(), key)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar dashboard")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": key + ".json"}))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// ImportDashboard lê no máximo maxBytes+1 bytes (0 desliga o limite); o serviço recusa o que passar dele
func ImportDashboard(service dashboarding.DashboardService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body io.Reader = r.Body
		if maxBytes > 0 {
			body = io.LimitReader(r.Body, maxBytes+1)
		}

		data, err := io.ReadAll(body)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler snapshot", nil)
			return
		}

		state, err := service.Import(r.Context(), param(r, "key"), data)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao importar dashboard")
			return
		}
		writeJSON(w, r, http.StatusOK, state)
	}
}
