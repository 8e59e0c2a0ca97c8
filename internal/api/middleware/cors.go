package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
)

// NewCORS returns the CORS handler for the browser frontend. The user header must
// be allowed explicitly since it is not a CORS-safelisted header.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			UserIDHeader,
		},
		ExposedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
	})
}
