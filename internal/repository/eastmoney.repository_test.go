package repository

import (
	"context"
	"errors"
	"etfgrid/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newEastmoneyTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	requests := []*http.Request{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func Test_secID(t *testing.T) {
	require.Equal(t, "1.510880", secID("SH510880"))
	require.Equal(t, "0.159920", secID("sz159920"))
	require.Equal(t, "1.510300", secID("510300"))
}

func Test_eastmoneyRepositoryHandler_GetLatestPrice(t *testing.T) {
	t.Run("converts cents", func(t *testing.T) {
		server, requests := newEastmoneyTestServer(t, http.StatusOK, `{"rc":0,"data":{"f43":312}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		price, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.NoError(t, err)
		require.Equal(t, 3.12, price.Price)
		require.Equal(t, "SH510880", price.Symbol)

		require.Len(t, *requests, 1)
		r := (*requests)[0]
		require.Equal(t, "1.510880", r.URL.Query().Get("secid"))
		require.Equal(t, "f43", r.URL.Query().Get("fields"))
		require.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		require.Equal(t, "https://quote.eastmoney.com/", r.Header.Get("Referer"))
	})

	t.Run("applies symbol scale", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"f43":12345}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		price, err := repo.GetLatestPrice(context.Background(), "SH515080")
		require.NoError(t, err)
		require.Equal(t, 12.345, price.Price)
	})

	t.Run("zero price", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"f43":0}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})

	t.Run("missing data", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"rc":0,"data":null}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})

	t.Run("suspended", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"f43":"-"}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})

	t.Run("server error", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusBadGateway, `oops`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.True(t, errors.Is(err, domain.ErrTransport))
	})

	t.Run("unreachable", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{}`)
		server.Close()
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetLatestPrice(context.Background(), "SH510880")
		require.True(t, errors.Is(err, domain.ErrTransport))
	})
}

func Test_eastmoneyRepositoryHandler_GetDailyCloses(t *testing.T) {
	t.Run("parses klines", func(t *testing.T) {
		server, requests := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"code":"510880","klines":[
			"2024-01-02,2.801,2.812,2.820,2.790",
			"2024-01-03,2.812,2.830,2.840,2.800"
		]}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		closes, err := repo.GetDailyCloses(context.Background(), "SH510880", 2)
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]float64{2.812, 2.830}, closes))
		require.Equal(t, "2", (*requests)[0].URL.Query().Get("lmt"))
		require.Equal(t, "101", (*requests)[0].URL.Query().Get("klt"))
	})

	t.Run("no klines", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"code":"510880","klines":[]}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetDailyCloses(context.Background(), "SH510880", 20)
		require.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})

	t.Run("malformed kline", func(t *testing.T) {
		server, _ := newEastmoneyTestServer(t, http.StatusOK, `{"data":{"klines":["2024-01-02,2.8,abc"]}}`)
		repo := NewEastmoneyRepositoryWithURLs(server.URL, server.URL)

		_, err := repo.GetDailyCloses(context.Background(), "SH510880", 20)
		require.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})
}
