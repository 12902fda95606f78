package repository

//go:generate mockgen -source=price.repository.go -destination=mocks/mock_price.repository.go -package=mock_repository

import (
	"context"
	"etfgrid/internal/domain"
	"strings"
)

// PriceRepository is a source of spot prices and daily closes.
type PriceRepository interface {
	GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error)
	GetDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
}

// NewPriceRouter sends each symbol to the repository registered for it,
// and everything else to fallback.
func NewPriceRouter(fallback PriceRepository, bySymbol map[string]PriceRepository) PriceRepository {
	routes := map[string]PriceRepository{}
	for symbol, repo := range bySymbol {
		routes[normalizeSymbol(symbol)] = repo
	}
	return &priceRouterHandler{
		Fallback: fallback,
		BySymbol: routes,
	}
}

type priceRouterHandler struct {
	Fallback PriceRepository
	BySymbol map[string]PriceRepository
}

func (h priceRouterHandler) route(symbol string) PriceRepository {
	if repo, ok := h.BySymbol[normalizeSymbol(symbol)]; ok {
		return repo
	}
	return h.Fallback
}

func (h priceRouterHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	return h.route(symbol).GetLatestPrice(ctx, symbol)
}

func (h priceRouterHandler) GetDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	return h.route(symbol).GetDailyCloses(ctx, symbol, days)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
