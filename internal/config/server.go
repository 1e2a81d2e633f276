package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	SessionTTLHours     int `env:"SESSION_TTL_HOURS" envDefault:"12"`
	SessionSweepMinutes int `env:"SESSION_SWEEP_MINUTES" envDefault:"15"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
