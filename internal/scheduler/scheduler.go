// Package scheduler runs background jobs that keep market data warm.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// refreshTimeout bounds a single refresh run.
const refreshTimeout = 2 * time.Minute

// HeldSymbolSource lists every symbol held by at least one user.
type HeldSymbolSource interface {
	GetAllHeldSymbols(ctx context.Context) ([]string, error)
}

// QuoteRefresher periodically fetches quotes for all held symbols through the
// gateway so that portfolio requests are served from a fresh cache.
type QuoteRefresher struct {
	symbols HeldSymbolSource
	gateway quote.Gateway
	cron    *cron.Cron
}

// NewQuoteRefresher creates a QuoteRefresher. Call Start to schedule it.
func NewQuoteRefresher(symbols HeldSymbolSource, gateway quote.Gateway) *QuoteRefresher {
	return &QuoteRefresher{
		symbols: symbols,
		gateway: gateway,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// RefreshOnce fetches a quote for every held symbol and returns how many were
// priced. Symbols without a quote are counted as misses and logged.
func (q *QuoteRefresher) RefreshOnce(ctx context.Context) (int, error) {
	symbols, err := q.symbols.GetAllHeldSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list held symbols: %w", err)
	}

	priced := 0
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return priced, ctx.Err()
		}
		if _, ok := q.gateway.GetQuote(ctx, sym); ok {
			priced++
			continue
		}
		logrus.WithField("symbol", sym).Warn("quote refresh returned no data")
	}

	logrus.WithFields(logrus.Fields{
		"symbols": len(symbols),
		"priced":  priced,
	}).Debug("quote refresh complete")

	return priced, nil
}

// Start schedules RefreshOnce with a cron spec such as "@every 5m" and starts
// the scheduler in its own goroutine.
func (q *QuoteRefresher) Start(spec string) error {
	_, err := q.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if _, err := q.RefreshOnce(ctx); err != nil {
			logrus.WithError(err).Error("quote refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid quote refresh schedule %q: %w", spec, err)
	}
	q.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running refresh to finish or ctx to expire.
func (q *QuoteRefresher) Stop(ctx context.Context) {
	done := q.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
