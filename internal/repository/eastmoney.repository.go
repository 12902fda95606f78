package repository

import (
	"context"
	"encoding/json"
	"etfgrid/internal/domain"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	eastmoneyQuoteURL   = "https://push2.eastmoney.com/api/qt/stock/get"
	eastmoneyHistoryURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	eastmoneyTimeout    = 5 * time.Second
)

// some funds are quoted one decimal place further out than the rest
var eastmoneyPriceScale = map[string]float64{
	"SH520890": 0.1,
	"SH515080": 0.1,
}

func NewEastmoneyRepository() PriceRepository {
	return NewEastmoneyRepositoryWithURLs(eastmoneyQuoteURL, eastmoneyHistoryURL)
}

func NewEastmoneyRepositoryWithURLs(quoteURL, historyURL string) PriceRepository {
	return &eastmoneyRepositoryHandler{
		Client:     &http.Client{Timeout: eastmoneyTimeout},
		QuoteURL:   quoteURL,
		HistoryURL: historyURL,
	}
}

type eastmoneyRepositoryHandler struct {
	Client     *http.Client
	QuoteURL   string
	HistoryURL string
}

// secID maps SH/SZ prefixed symbols to eastmoney's "market.code" id.
// Unprefixed symbols are assumed to be Shanghai listings.
func secID(symbol string) string {
	s := normalizeSymbol(symbol)
	switch {
	case strings.HasPrefix(s, "SH"):
		return "1." + s[2:]
	case strings.HasPrefix(s, "SZ"):
		return "0." + s[2:]
	default:
		return "1." + s
	}
}

type eastmoneyQuoteResponse struct {
	Data *struct {
		F43 interface{} `json:"f43"`
	} `json:"data"`
}

func (h eastmoneyRepositoryHandler) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://quote.eastmoney.com/")

	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrTransport, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrDataUnavailable, err)
	}
	return nil
}

func (h eastmoneyRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	params := url.Values{}
	params.Set("secid", secID(symbol))
	params.Set("fields", "f43")

	resp := eastmoneyQuoteResponse{}
	if err := h.get(ctx, h.QuoteURL, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get price for %s: %w", symbol, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("failed to get price for %s: %w: empty quote", symbol, domain.ErrDataUnavailable)
	}

	// suspended listings report "-" instead of a number
	raw, ok := resp.Data.F43.(float64)
	if !ok || raw == 0 {
		return nil, fmt.Errorf("failed to get price for %s: %w: f43=%v", symbol, domain.ErrDataUnavailable, resp.Data.F43)
	}

	scale := 1.0
	if s, ok := eastmoneyPriceScale[normalizeSymbol(symbol)]; ok {
		scale = s
	}
	price := decimal.NewFromFloat(raw).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromFloat(scale)).
		Round(3)

	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  price.InexactFloat64(),
		Date:   time.Now(),
	}, nil
}

type eastmoneyKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// GetDailyCloses returns up to days daily closes, oldest first. Kline
// rows are "date,open,close,high,low" and already in currency units.
func (h eastmoneyRepositoryHandler) GetDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	params := url.Values{}
	params.Set("secid", secID(symbol))
	params.Set("fields1", "f1,f2,f3")
	params.Set("fields2", "f51,f52,f53,f54,f55")
	params.Set("klt", "101")
	params.Set("fqt", "1")
	params.Set("end", "20500101")
	params.Set("lmt", strconv.Itoa(days))

	resp := eastmoneyKlineResponse{}
	if err := h.get(ctx, h.HistoryURL, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}
	if resp.Data == nil || len(resp.Data.Klines) == 0 {
		return nil, fmt.Errorf("failed to get history for %s: %w: no klines", symbol, domain.ErrDataUnavailable)
	}

	out := make([]float64, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("failed to parse kline %q for %s: %w", line, symbol, domain.ErrDataUnavailable)
		}
		c, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close in kline %q for %s: %w", line, symbol, domain.ErrDataUnavailable)
		}
		out = append(out, c)
	}
	return out, nil
}
