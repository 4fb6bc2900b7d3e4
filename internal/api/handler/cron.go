package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMetricsSnapshots = "metrics-snapshots"
	CronJobTypeAll              = "all"
)

// CronJob é um agendador que aceita execução manual
type CronJob interface {
	TriggerManualSync(ctx context.Context) bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron disponíveis para execução manual
type CronJobServices struct {
	MetricsSnapshotSyncService CronJob
}

func (s CronJobServices) jobs() map[string]CronJob {
	jobs := make(map[string]CronJob)
	if s.MetricsSnapshotSyncService != nil {
		jobs[CronJobTypeMetricsSnapshots] = s.MetricsSnapshotSyncService
	}
	return jobs
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := param(r, "type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		jobs := services.jobs()

		started := map[string]bool{}
		switch job, exists := jobs[cronType]; {
		case cronType == CronJobTypeAll:
			for name, job := range jobs {
				started[name] = job.TriggerManualSync(r.Context())
			}
		case exists:
			started[cronType] = job.TriggerManualSync(r.Context())
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: metrics-snapshots, all", nil)
			return
		}

		log.ForContext(r.Context()).WithField("type", cronType).Info("Execução manual de cron job solicitada")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"started": started,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any)
		for name, job := range services.jobs() {
			status[name] = job.GetStatus()
		}
		writeJSON(w, r, http.StatusOK, status)
	}
}
