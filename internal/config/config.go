package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is populated from environment variables. A .env file in the
// working directory is loaded first when present.
type Config struct {
	TelegramToken string        `env:"TELEGRAM_BOT_TOKEN,required"`
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"reminders.db"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
