package service

import (
	"context"
	"strings"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// MarketService exposes symbol search and the per-symbol detail page data.
type MarketService struct {
	gateway quote.Gateway
}

// NewMarketService creates a new MarketService.
func NewMarketService(gateway quote.Gateway) *MarketService {
	return &MarketService{gateway: gateway}
}

// Search finds symbols matching query. assetType is "stock" unless it is "crypto".
func (s *MarketService) Search(ctx context.Context, query, assetType string) ([]model.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrInvalidSymbolQuery
	}
	if assetType != model.AssetTypeCrypto {
		assetType = model.AssetTypeStock
	}
	return s.gateway.SearchSymbols(ctx, query, assetType), nil
}

// StockDetail returns the quote, price history and news for symbol.
// News is searched by company name.
func (s *MarketService) StockDetail(ctx context.Context, symbol string) (*model.StockDetail, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbolQuery
	}

	q, ok := s.gateway.GetQuote(ctx, symbol)
	if !ok {
		return nil, apperrors.ErrSymbolNotFound
	}

	name := q.Name
	if name == "" {
		name = symbol
	}

	return &model.StockDetail{
		Quote:      q,
		Historical: s.gateway.GetHistorical(ctx, symbol),
		News:       s.gateway.GetNews(ctx, name),
	}, nil
}
