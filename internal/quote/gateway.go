// Package quote is the market data gateway used by valuation, growth and
// transaction flows. Upstream failures never reach callers: they degrade to
// "no data" and are logged.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/cache"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// ErrNotFound is returned by providers when a symbol has no quote.
var ErrNotFound = errors.New("quote not found")

// Gateway supplies live quotes, historical closes, symbol search and news.
type Gateway interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, bool)
	GetHistorical(ctx context.Context, symbol string) model.HistoricalSeries
	SearchSymbols(ctx context.Context, query, assetType string) []model.SymbolMatch
	GetNews(ctx context.Context, companyName string) []model.Article
}

// Provider is an upstream market data source.
type Provider interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	Historical(ctx context.Context, symbol string) (model.HistoricalSeries, error)
	Search(ctx context.Context, query, assetType string) ([]model.SymbolMatch, error)
}

// NewsProvider is an upstream news source.
type NewsProvider interface {
	News(ctx context.Context, companyName string) ([]model.Article, error)
}

// Windows are the freshness windows per lookup kind.
type Windows struct {
	Quote      time.Duration
	Historical time.Duration
	Search     time.Duration
	News       time.Duration
}

// DefaultWindows: 5 minutes for quotes, a day for history, an hour for search
// and 30 minutes for news.
var DefaultWindows = Windows{
	Quote:      5 * time.Minute,
	Historical: 24 * time.Hour,
	Search:     time.Hour,
	News:       30 * time.Minute,
}

// CachedGateway implements Gateway on top of a Provider and a cache.Store.
// Concurrent misses for the same key share one upstream call.
type CachedGateway struct {
	provider Provider
	news     NewsProvider
	store    *cache.Store
	windows  Windows
	group    singleflight.Group
}

// NewCachedGateway creates a gateway with DefaultWindows. news may be nil, in which
// case GetNews always returns no articles.
func NewCachedGateway(provider Provider, news NewsProvider, store *cache.Store) *CachedGateway {
	return &CachedGateway{
		provider: provider,
		news:     news,
		store:    store,
		windows:  DefaultWindows,
	}
}

// WithWindows overrides the freshness windows.
func (g *CachedGateway) WithWindows(w Windows) *CachedGateway {
	g.windows = w
	return g
}

// GetQuote returns the live quote for symbol, or false when the symbol is unknown
// or the provider failed. Misses are not cached.
func (g *CachedGateway) GetQuote(ctx context.Context, symbol string) (model.Quote, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Quote{}, false
	}

	q, err := fetch(ctx, g, "quote:"+symbol, g.windows.Quote, func(ctx context.Context) (model.Quote, error) {
		return g.provider.Quote(ctx, symbol)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logrus.WithError(err).WithField("symbol", symbol).Warn("quote lookup failed")
		}
		return model.Quote{}, false
	}
	return q, true
}

// GetHistorical returns the sparse date->close series for symbol. Failures yield an
// empty series.
func (g *CachedGateway) GetHistorical(ctx context.Context, symbol string) model.HistoricalSeries {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	series, err := fetch(ctx, g, "historical:"+symbol, g.windows.Historical, func(ctx context.Context) (model.HistoricalSeries, error) {
		return g.provider.Historical(ctx, symbol)
	})
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Warn("historical lookup failed")
		return model.HistoricalSeries{}
	}
	return series
}

// SearchSymbols returns symbols matching query for the given asset type.
func (g *CachedGateway) SearchSymbols(ctx context.Context, query, assetType string) []model.SymbolMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SymbolMatch{}
	}

	key := fmt.Sprintf("search:%s:%s", assetType, query)
	matches, err := fetch(ctx, g, key, g.windows.Search, func(ctx context.Context) ([]model.SymbolMatch, error) {
		return g.provider.Search(ctx, query, assetType)
	})
	if err != nil {
		logrus.WithError(err).WithField("query", query).Warn("symbol search failed")
		return []model.SymbolMatch{}
	}
	return matches
}

// GetNews returns recent articles about companyName.
func (g *CachedGateway) GetNews(ctx context.Context, companyName string) []model.Article {
	if g.news == nil || strings.TrimSpace(companyName) == "" {
		return []model.Article{}
	}

	articles, err := fetch(ctx, g, "news:"+companyName, g.windows.News, func(ctx context.Context) ([]model.Article, error) {
		return g.news.News(ctx, companyName)
	})
	if err != nil {
		logrus.WithError(err).WithField("company", companyName).Warn("news lookup failed")
		return []model.Article{}
	}
	return articles
}

// fetch serves key from the store when fresh, otherwise loads and stores it.
// Concurrent loads of one key are shared, so load runs detached from the
// cancellation of whichever caller started it.
func fetch[T any](ctx context.Context, g *CachedGateway, key string, window time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := g.store.Get(key, window); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		fresh, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		g.store.Set(key, fresh)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
