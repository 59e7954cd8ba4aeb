// Package botapp предоставляет маршруты служебного HTTP-сервера.
package botapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует служебные маршруты: проверку живости
// и метрики.
func RegisterRoutes(r chi.Router, logger *slog.Logger) {
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())
}
