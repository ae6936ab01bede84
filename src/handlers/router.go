package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/tradejournal/backend/src/config"
	"github.com/username/tradejournal/backend/src/services"
)

// NewRouter wires every API route and the shared middleware stack.
func NewRouter(cfg *config.AppConfig, uploadService services.UploadService) http.Handler {
	uploadHandler := NewUploadHandler(uploadService, cfg.MaxUploadSizeBytes, cfg.DefaultSource)
	accountHandler := NewAccountHandler(uploadService)
	feeHandler := NewFeeHandler(uploadService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(ContextualLoggerMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Trade journal backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Post("/upload/preview", uploadHandler.HandlePreview)
		r.Get("/uploads", uploadHandler.HandleGetUploadHistory)

		r.Get("/accounts", accountHandler.HandleGetAccounts)
		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/trades", accountHandler.HandleGetTrades)
			r.Delete("/trades", accountHandler.HandleDeleteTrades)
			r.Get("/summary", accountHandler.HandleGetSummary)
			r.Get("/fees", feeHandler.HandleGetFeeDetails)
		})
	})

	return r
}
