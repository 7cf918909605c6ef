package handler

import (
	"context"
	"net/http"
	"time"
	"vendor-upload-portal/internal/util"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz godoc
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} requestresponse.ErrorResponse
// @Router /healthz [get]
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			util.HandleError(w, "база данных недоступна", http.StatusServiceUnavailable)
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
