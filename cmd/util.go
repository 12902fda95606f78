package cmd

import (
	"context"
	"etfgrid/api"
	"etfgrid/internal/app"
	"etfgrid/internal/domain"
	"etfgrid/internal/repository"
	"etfgrid/internal/service"
	"etfgrid/internal/util"
	"fmt"
	"os"
)

type Options struct {
	ConfigPath  string
	StatePath   string
	JournalPath string
	EnvFile     string
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = envOr("ETFGRID_CONFIG", "config.yaml")
	}
	if o.StatePath == "" {
		o.StatePath = envOr("ETFGRID_STATE", "state.json")
	}
	if o.JournalPath == "" {
		o.JournalPath = envOr("ETFGRID_JOURNAL", "signals.csv")
	}
	if o.EnvFile == "" {
		o.EnvFile = ".env"
	}
	return o
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func InitializeDependencies(ctx context.Context, opts Options) (*api.ApiHandler, error) {
	opts = opts.withDefaults()

	cfg, err := util.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	secrets := util.LoadSecrets(opts.EnvFile)

	priceRepository, err := newPriceRepository(*cfg, secrets)
	if err != nil {
		return nil, err
	}

	channels, err := newNotificationChannels(ctx, secrets)
	if err != nil {
		return nil, err
	}

	stateRepository := repository.NewStateRepository(opts.StatePath)
	journalRepository := repository.NewSignalJournalRepository(opts.JournalPath)

	monitor := &app.MonitorApp{
		Config:                  *cfg,
		StateRepository:         stateRepository,
		SignalJournalRepository: journalRepository,
		GridService:             service.NewGridService(priceRepository),
		TrendService:            service.NewTrendService(priceRepository),
		RotationService:         service.NewRotationService(),
		NotificationService:     service.NewNotificationService(channels...),
	}

	return &api.ApiHandler{
		Monitor:                 monitor,
		SignalJournalRepository: journalRepository,
		JwtSecret:               secrets.ApiJwtSecret,
	}, nil
}

// newPriceRepository routes each symbol to its configured provider,
// falling back to eastmoney.
func newPriceRepository(cfg domain.Config, secrets util.Secrets) (repository.PriceRepository, error) {
	var (
		yahoo  repository.PriceRepository
		alpaca repository.PriceRepository
	)
	bySymbol := map[string]repository.PriceRepository{}

	for _, name := range cfg.AssetNames() {
		asset := cfg.Assets[name]
		switch asset.ProviderOrDefault() {
		case domain.ProviderYahoo:
			if yahoo == nil {
				yahoo = repository.NewYahooRepository()
			}
			bySymbol[asset.Symbol] = yahoo
		case domain.ProviderAlpaca:
			if !secrets.Alpaca.Configured() {
				return nil, fmt.Errorf("%w: asset %s uses alpaca but APCA_API_KEY_ID/APCA_API_SECRET_KEY are not set", domain.ErrConfig, name)
			}
			if alpaca == nil {
				alpaca = repository.NewAlpacaRepository(secrets.Alpaca.ApiKey, secrets.Alpaca.ApiSecret, secrets.Alpaca.Endpoint)
			}
			bySymbol[asset.Symbol] = alpaca
		}
	}

	return repository.NewPriceRouter(repository.NewEastmoneyRepository(), bySymbol), nil
}

func newNotificationChannels(ctx context.Context, secrets util.Secrets) ([]repository.NotificationRepository, error) {
	channels := []repository.NotificationRepository{}
	if secrets.PushPlusToken != "" {
		channels = append(channels, repository.NewPushPlusRepository(secrets.PushPlusToken))
	}
	if secrets.Telegram.Configured() {
		channels = append(channels, repository.NewTelegramRepository(secrets.Telegram.BotToken, secrets.Telegram.ChatID))
	}
	if secrets.SES.Configured() {
		email, err := repository.NewEmailRepository(ctx, secrets.SES.Region, secrets.SES.FromEmail, secrets.SES.ToEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email channel: %w", err)
		}
		channels = append(channels, email)
	}
	return channels, nil
}
