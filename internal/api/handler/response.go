package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("corpo da requisição vazio")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func param(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// intQuery lê um inteiro da query string; ausente ou inválido devolve fallback
func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// writeServiceError converte os erros tipados dos casos de uso na resposta padronizada
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	var salesErr *selling.SalesError
	if errors.As(err, &salesErr) {
		var details any
		if len(salesErr.Fields) > 0 {
			details = salesErr.Fields
		}
		apiErrors.WriteError(w, salesErr.Code, salesErr.Error(), details)
		return
	}

	var dashErr *dashboarding.DashboardError
	if errors.As(err, &dashErr) {
		apiErrors.WriteError(w, dashErr.Code, dashErr.Error(), map[string]any{
			"dashboard_key": dashErr.DashboardKey,
		})
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		var details any
		if authErr.UserID != "" {
			details = map[string]any{"user_id": authErr.UserID}
		}
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), details)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error(fallbackMessage)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
}
