package repository

import (
	"context"
	"etfgrid/internal/domain"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// alpacaQuoteClient is the part of the alpaca market data client used here.
type alpacaQuoteClient interface {
	GetLatestQuotes(symbols []string, req marketdata.GetLatestQuoteRequest) (map[string]marketdata.Quote, error)
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// NewAlpacaRepository serves US listed ETFs from alpaca market data.
func NewAlpacaRepository(apiKey, apiSecret string, endpoint string) PriceRepository {
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:   endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaRepositoryHandler{
		MdClient: mdClient,
	}
}

type alpacaRepositoryHandler struct {
	MdClient alpacaQuoteClient
}

func (h alpacaRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	results, err := h.MdClient.GetLatestQuotes([]string{symbol}, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w: %w", symbol, domain.ErrTransport, err)
	}
	result, ok := results[symbol]
	if !ok || result.BidPrice == 0 {
		return nil, fmt.Errorf("failed to get price for %s: %w: got 0 price", symbol, domain.ErrDataUnavailable)
	}

	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  result.BidPrice,
		Date:   result.Timestamp.UTC(),
	}, nil
}

func (h alpacaRepositoryHandler) GetDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	end := time.Now()
	// weekends and holidays; trimmed to days below
	start := end.AddDate(0, 0, -2*days-7)

	bars, err := h.MdClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bars for %s: %w: %w", symbol, domain.ErrTransport, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, domain.ErrDataUnavailable)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	out := make([]float64, 0, len(bars))
	for _, bar := range bars {
		out = append(out, bar.Close)
	}
	return out, nil
}
