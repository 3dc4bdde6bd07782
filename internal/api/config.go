package api

import "time"

type Config struct {
	RateLimitBurst    int           `env:"API_RATE_LIMIT_BURST" envDefault:"20"`
	RateLimitRefill   int           `env:"API_RATE_LIMIT_REFILL" envDefault:"10"`
	RateLimitInterval time.Duration `env:"API_RATE_LIMIT_INTERVAL" envDefault:"1m"`
	MaxBodyBytes      int64         `env:"API_MAX_BODY_BYTES" envDefault:"4096"`
}
