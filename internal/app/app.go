// Package app wires configuration, storage, market data and services into the
// object graph shared by the server and the CLI.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/cache"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/fmp"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/newsapi"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/yahoo"
)

// Provider names accepted by QUOTE_PROVIDER.
const (
	ProviderFMP   = "fmp"
	ProviderYahoo = "yahoo"
)

// App is the fully wired application.
type App struct {
	DB              *sql.DB
	Gateway         quote.Gateway
	Publisher       events.Publisher
	TransactionRepo *repository.TransactionRepository

	Ledger      *service.LedgerService
	Transaction *service.TransactionService
	Portfolio   *service.PortfolioService
	Market      *service.MarketService
	System      *service.SystemService

	store *cache.Store
}

// New opens the database and builds every service from cfg.
func New(cfg *config.Config) (*App, error) {
	provider, err := NewProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := cache.New(cfg.Cache.MaxCost, clock.Real{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	var news quote.NewsProvider
	if cfg.Provider.NewsAPIKey != "" {
		news = newsapi.NewClient(cfg.Provider.NewsAPIKey)
	}
	gateway := quote.NewCachedGateway(provider, news, store)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logrus.WithFields(logrus.Fields{
			"brokers": strings.Join(cfg.Kafka.Brokers, ","),
			"topic":   cfg.Kafka.Topic,
		}).Info("publishing ledger events to kafka")
	}

	clk := clock.Real{}
	transactionRepo := repository.NewTransactionRepository(db)
	ledger := service.NewLedgerService(transactionRepo)
	valuation := service.NewValuationService(gateway)
	growth := service.NewGrowthService(gateway, clk)

	return &App{
		DB:              db,
		Gateway:         gateway,
		Publisher:       publisher,
		TransactionRepo: transactionRepo,
		Ledger:          ledger,
		Transaction:     service.NewTransactionService(transactionRepo, ledger, gateway, publisher, clk),
		Portfolio:       service.NewPortfolioService(ledger, valuation, growth),
		Market:          service.NewMarketService(gateway),
		System: service.NewSystemService(db, map[string]bool{
			"news":   news != nil,
			"events": len(cfg.Kafka.Brokers) > 0,
		}),
		store: store,
	}, nil
}

// NewProvider returns the upstream market data client selected by cfg.Name.
func NewProvider(cfg config.ProviderConfig) (quote.Provider, error) {
	switch strings.ToLower(cfg.Name) {
	case "", ProviderFMP:
		if cfg.APIKey == "" {
			return nil, errors.New("API_KEY is required for the fmp quote provider")
		}
		return fmp.NewClient(cfg.APIKey), nil
	case ProviderYahoo:
		return yahoo.NewFinanceClient(), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.Name)
	}
}

// Close flushes the event publisher, stops the quote cache and closes the
// database.
func (a *App) Close() error {
	err := a.Publisher.Close()
	if a.store != nil {
		a.store.Close()
	}
	return errors.Join(err, a.DB.Close())
}
