package service

import (
	"context"
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	mock_repository "etfgrid/internal/repository/mocks"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_trendServiceHandler_Evaluate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	ctx := context.Background()
	cfg := domain.AssetConfig{Symbol: "SH510880", BasePrice: 3, BaseUnits: intPointer(1000)}
	strategy := domain.StrategyConfig{
		FetchHistoryDays: intPointer(5),
		MaPeriodShort:    intPointer(2),
		MaPeriodLong:     intPointer(5),
	}
	rising := []float64{3.0, 3.0, 3.0, 3.0, 3.1}
	fair := domain.Tier{Label: domain.TierB, GridPct: 0.04, CanBuy: true, CanSell: true}

	t.Run("first regime only recorded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		handler := trendServiceHandler{PriceRepository: priceRepository}

		priceRepository.EXPECT().GetDailyCloses(gomock.Any(), "SH510880", 5).Return(rising, nil)

		state, signal, err := handler.Evaluate(ctx, TrendInput{
			Name: "dividend", Config: cfg, Strategy: strategy, Tier: fair, Price: 3.2, Now: now,
		})
		require.NoError(t, err)
		require.Nil(t, signal)
		require.Equal(t, calculator.TrendUp, state.Trend)
	})

	t.Run("cross up emits signal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		handler := trendServiceHandler{PriceRepository: priceRepository}

		priceRepository.EXPECT().GetDailyCloses(gomock.Any(), "SH510880", 5).Return(rising, nil)

		state, signal, err := handler.Evaluate(ctx, TrendInput{
			Name: "dividend", Config: cfg, Strategy: strategy, Tier: fair, Price: 3.2, Now: now,
			State: domain.AssetState{Trend: calculator.TrendDown},
		})
		require.NoError(t, err)
		require.NotNil(t, signal)
		require.Equal(t, domain.SignalTrendUp, signal.Kind)
		require.Equal(t, 10, signal.Units)
		require.Contains(t, signal.Message, "dividend (SH510880) trend UP:")
		require.Contains(t, signal.Message, "- MA2: 3.1500")
		require.Equal(t, calculator.TrendUp, state.Trend)
	})

	t.Run("cross up suppressed when buys are not allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		handler := trendServiceHandler{PriceRepository: priceRepository}

		priceRepository.EXPECT().GetDailyCloses(gomock.Any(), "SH510880", 5).Return(rising, nil)

		state, signal, err := handler.Evaluate(ctx, TrendInput{
			Name: "dividend", Config: cfg, Strategy: strategy, Price: 3.2, Now: now,
			Tier:  domain.Tier{Label: domain.TierD, CanBuy: false, CanSell: true},
			State: domain.AssetState{Trend: calculator.TrendDown},
		})
		require.NoError(t, err)
		require.Nil(t, signal)
		require.Equal(t, calculator.TrendUp, state.Trend)
	})

	t.Run("cross down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		handler := trendServiceHandler{PriceRepository: priceRepository}

		priceRepository.EXPECT().GetDailyCloses(gomock.Any(), "SH510880", 5).Return([]float64{3.2, 3.2, 3.2, 3.2, 3.1}, nil)

		state, signal, err := handler.Evaluate(ctx, TrendInput{
			Name: "dividend", Config: cfg, Strategy: strategy, Tier: fair, Price: 3.0, Now: now,
			State: domain.AssetState{Trend: calculator.TrendUp},
		})
		require.NoError(t, err)
		require.Equal(t, domain.SignalTrendDown, signal.Kind)
		require.Equal(t, calculator.TrendDown, state.Trend)
	})

	t.Run("history failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		handler := trendServiceHandler{PriceRepository: priceRepository}

		priceRepository.EXPECT().GetDailyCloses(gomock.Any(), "SH510880", 5).Return(nil, fmt.Errorf("%w: down", domain.ErrTransport))

		state, signal, err := handler.Evaluate(ctx, TrendInput{
			Name: "dividend", Config: cfg, Strategy: strategy, Tier: fair, Price: 3.0, Now: now,
			State: domain.AssetState{Trend: calculator.TrendUp},
		})
		require.ErrorIs(t, err, domain.ErrTransport)
		require.Nil(t, signal)
		require.Equal(t, calculator.TrendUp, state.Trend)
	})
}
