package handler

import (
	"net/http"
	"time"
)

type HealthcheckResponse struct {
	Status     string    `json:"status"`
	DataSource string    `json:"data_source"`
	Storage    string    `json:"layout_storage"`
	Time       time.Time `json:"time"`
}

func HealthcheckHandler(dataSource, storageDriver string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, HealthcheckResponse{
			Status:     "ok",
			DataSource: dataSource,
			Storage:    storageDriver,
			Time:       time.Now().UTC(),
		})
	})
}
