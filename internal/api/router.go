package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// Services groups the services the HTTP surface depends on.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Transaction *service.TransactionService
	Market      *service.MarketService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(custommiddleware.NewCORS(cfg.CORS))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Everything below acts on the ledger of the requesting user
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireUser)

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
				r.Get("/", portfolioHandler.View)
				r.Get("/symbols", portfolioHandler.Symbols)
			})

			r.Route("/transaction", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(services.Transaction)
				r.Get("/", transactionHandler.History)
				r.Post("/buy", transactionHandler.Buy)
				r.Post("/sell", transactionHandler.Sell)
				r.Post("/reset", transactionHandler.Reset)
				r.With(custommiddleware.ValidateUUIDMiddleware).Delete("/{uuid}", transactionHandler.Delete)
			})

			r.Route("/market", func(r chi.Router) {
				marketHandler := handlers.NewMarketHandler(services.Market)
				r.Get("/search", marketHandler.Search)
				r.Get("/stock/{symbol}", marketHandler.Stock)
			})
		})
	})

	return r
}
