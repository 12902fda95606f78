package util

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Secrets are notification and data-vendor credentials. A channel whose
// credentials are empty is simply not configured.
type Secrets struct {
	PushPlusToken string
	Telegram      TelegramSecrets
	SES           SESSecrets
	Alpaca        AlpacaSecrets
	ApiJwtSecret  string
}

type TelegramSecrets struct {
	BotToken string
	ChatID   string
}

func (t TelegramSecrets) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type SESSecrets struct {
	Region    string
	FromEmail string
	ToEmail   string
}

func (s SESSecrets) Configured() bool {
	return s.Region != "" && s.FromEmail != "" && s.ToEmail != ""
}

type AlpacaSecrets struct {
	ApiKey    string
	ApiSecret string
	Endpoint  string
}

func (a AlpacaSecrets) Configured() bool {
	return a.ApiKey != "" && a.ApiSecret != ""
}

// LoadSecrets reads credentials from the environment after merging in
// the given .env files, if present. Variables already set in the process
// environment win over the files.
func LoadSecrets(envFiles ...string) Secrets {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	return Secrets{
		PushPlusToken: env("PUSHPLUS_TOKEN"),
		Telegram: TelegramSecrets{
			BotToken: env("TELEGRAM_BOT_TOKEN"),
			ChatID:   env("TELEGRAM_CHAT_ID"),
		},
		SES: SESSecrets{
			Region:    env("SES_REGION"),
			FromEmail: env("SES_FROM_EMAIL"),
			ToEmail:   env("SES_TO_EMAIL"),
		},
		Alpaca: AlpacaSecrets{
			ApiKey:    env("APCA_API_KEY_ID"),
			ApiSecret: env("APCA_API_SECRET_KEY"),
			Endpoint:  env("APCA_DATA_URL"),
		},
		ApiJwtSecret: env("API_JWT_SECRET"),
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
