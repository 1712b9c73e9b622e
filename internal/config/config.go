package config

import "time"

type Config struct {
	API           API
	Telegram      Telegram
	SessionDBPath string        `env:"SESSION_DB_PATH" envDefault:"outlay.db"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	MonthlyBudget string        `env:"MONTHLY_BUDGET" envDefault:"10000"`
}

type API struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"https://67ac71475853dfff53dab929.mockapi.io/api/v1"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

type Telegram struct {
	Timeout int `env:"TIMEOUT" envDefault:"60"`
}
