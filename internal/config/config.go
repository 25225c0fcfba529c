package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// The single top-privilege operator. Delegated admins are granted at
	// runtime via /add_admin and live in memory only.
	OwnerID int64 `env:"OWNER_ID,required"`

	// Store
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	// Telegram ops logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicPayout    int   `env:"LOG_TOPIC_PAYOUT"`
	LogTopicAdmin     int   `env:"LOG_TOPIC_ADMIN"`
	LogTopicReset     int   `env:"LOG_TOPIC_RESET"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
