package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func TestValuationService_Value(t *testing.T) {
	ctx := context.Background()

	t.Run("values a single holding", func(t *testing.T) {
		gw := testutil.NewMockGateway().WithQuote("AAPL", 120, 115)
		svc := service.NewValuationService(gw)

		result, err := svc.Value(ctx, []model.SymbolAggregate{
			{Symbol: "AAPL", NetShares: 10, TotalCost: 1000, SharesBought: 10},
		})
		if err != nil {
			t.Fatalf("Value() error = %v", err)
		}
		if len(result.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(result.Holdings))
		}

		h := result.Holdings[0]
		checks := []struct {
			field string
			got   float64
			want  float64
		}{
			{"AvgPrice", h.AvgPrice, 100},
			{"TotalValue", h.TotalValue, 1200},
			{"CostBasis", h.CostBasis, 1000},
			{"TotalPL", h.TotalPL, 200},
			{"TotalPLPct", h.TotalPLPct, 20},
			{"DailyPL", h.DailyPL, 50},
			{"PriceChangeAbs", h.PriceChangeAbs, 5},
			{"PriceChangePct", h.PriceChangePct, 4.35},
			{"GrandTotal", result.Totals.GrandTotal, 1200},
			{"TotalInvested", result.Totals.TotalInvested, 1000},
			{"TotalDailyPL", result.Totals.TotalDailyPL, 50},
			{"TotalDailyPLPct", result.Totals.TotalDailyPLPct, 4.35},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s: expected %v, got %v", c.field, c.want, c.got)
			}
		}
	})

	t.Run("missing previous close yields zero daily change", func(t *testing.T) {
		gw := testutil.NewMockGateway().WithQuoteNoPreviousClose("BTC-USD", 60000)
		svc := service.NewValuationService(gw)

		result, err := svc.Value(ctx, []model.SymbolAggregate{
			{Symbol: "BTC-USD", NetShares: 1, TotalCost: 50000, SharesBought: 1},
		})
		if err != nil {
			t.Fatalf("Value() error = %v", err)
		}

		h := result.Holdings[0]
		if h.PreviousClose != h.Price {
			t.Errorf("Expected previous close to fall back to price, got %v", h.PreviousClose)
		}
		if h.DailyPL != 0 || h.PriceChangeAbs != 0 || h.PriceChangePct != 0 {
			t.Errorf("Expected zero daily change, got %+v", h)
		}
		if result.Totals.TotalDailyPLPct != 0 {
			t.Errorf("Expected zero daily pct, got %v", result.Totals.TotalDailyPLPct)
		}
	})

	t.Run("quote failure skips only that symbol", func(t *testing.T) {
		gw := testutil.NewMockGateway().WithQuote("AAPL", 120, 115)
		svc := service.NewValuationService(gw)

		result, err := svc.Value(ctx, []model.SymbolAggregate{
			{Symbol: "AAPL", NetShares: 10, TotalCost: 1000, SharesBought: 10},
			{Symbol: "GONE", NetShares: 5, TotalCost: 500, SharesBought: 5},
		})
		if err != nil {
			t.Fatalf("Value() error = %v", err)
		}
		if len(result.Holdings) != 1 || result.Holdings[0].Symbol != "AAPL" {
			t.Fatalf("Expected only AAPL, got %+v", result.Holdings)
		}
		if len(result.Skipped) != 1 || result.Skipped[0] != "GONE" {
			t.Errorf("Expected GONE skipped, got %v", result.Skipped)
		}
		if result.Totals.GrandTotal != 1200 || result.Totals.TotalInvested != 1000 {
			t.Errorf("Expected skipped symbol excluded from totals, got %+v", result.Totals)
		}
	})

	t.Run("totals equal the sum of holdings", func(t *testing.T) {
		gw := testutil.NewMockGateway().
			WithQuote("AAPL", 187.33, 185.01).
			WithQuote("MSFT", 411.07, 415.5).
			WithQuote("ETH-USD", 3012.456, 2999.1)
		svc := service.NewValuationService(gw)

		result, err := svc.Value(ctx, []model.SymbolAggregate{
			{Symbol: "AAPL", NetShares: 7, TotalCost: 1234.56, SharesBought: 9},
			{Symbol: "ETH-USD", NetShares: 0.75, TotalCost: 2500, SharesBought: 1},
			{Symbol: "MSFT", NetShares: 3, TotalCost: 1100, SharesBought: 3},
		})
		if err != nil {
			t.Fatalf("Value() error = %v", err)
		}

		var value, pl, daily float64
		for _, h := range result.Holdings {
			value += h.TotalValue
			pl += h.TotalPL
			daily += h.DailyPL
		}
		tolerance := 0.01 * float64(len(result.Holdings))
		if math.Abs(value-result.Totals.GrandTotal) > tolerance {
			t.Errorf("Grand total %v differs from sum %v", result.Totals.GrandTotal, value)
		}
		if math.Abs(pl-result.Totals.TotalPL) > tolerance {
			t.Errorf("Total P&L %v differs from sum %v", result.Totals.TotalPL, pl)
		}
		if math.Abs(daily-result.Totals.TotalDailyPL) > tolerance {
			t.Errorf("Daily P&L %v differs from sum %v", result.Totals.TotalDailyPL, daily)
		}
	})

	t.Run("held symbol without buys fails", func(t *testing.T) {
		gw := testutil.NewMockGateway().WithQuote("AAPL", 120, 115)
		svc := service.NewValuationService(gw)

		_, err := svc.Value(ctx, []model.SymbolAggregate{{Symbol: "AAPL", NetShares: 3}})
		if !errors.Is(err, apperrors.ErrNoBuyHistory) {
			t.Errorf("Expected ErrNoBuyHistory, got %v", err)
		}
	})

	t.Run("empty portfolio", func(t *testing.T) {
		svc := service.NewValuationService(testutil.NewMockGateway())

		result, err := svc.Value(ctx, nil)
		if err != nil {
			t.Fatalf("Value() error = %v", err)
		}
		if len(result.Holdings) != 0 || result.Totals != (model.PortfolioTotals{}) {
			t.Errorf("Expected empty result, got %+v", result)
		}
	})
}
