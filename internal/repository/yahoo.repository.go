package repository

import (
	"context"
	"etfgrid/internal/domain"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// NewYahooRepository reads daily bars from yahoo finance. The latest
// price is the close of the most recent bar, which intraday is the last
// trade.
func NewYahooRepository() PriceRepository {
	return &yahooRepositoryHandler{}
}

type yahooRepositoryHandler struct{}

type yahooBar struct {
	Date  time.Time
	Close float64
}

func (h yahooRepositoryHandler) bars(symbol string, start time.Time) ([]yahooBar, error) {
	now := time.Now()
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []yahooBar{}
	for iter.Next() {
		out = append(out, yahooBar{
			Date:  time.Unix(int64(iter.Bar().Timestamp), 0),
			Close: iter.Bar().Close.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w: %w", symbol, domain.ErrTransport, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, domain.ErrDataUnavailable)
	}
	return out, nil
}

func (h yahooRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	bars, err := h.bars(symbol, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	last := bars[len(bars)-1]
	if last.Close == 0 {
		return nil, fmt.Errorf("failed to get price for %s: %w: got 0 price", symbol, domain.ErrDataUnavailable)
	}
	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  last.Close,
		Date:   last.Date,
	}, nil
}

func (h yahooRepositoryHandler) GetDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	bars, err := h.bars(symbol, time.Now().AddDate(0, 0, -2*days-7))
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out, nil
}
