package config

import "github.com/caarlos0/env/v11"

// BackendConfig points at the settlement backend that owns all game,
// distribution and payment state.
type BackendConfig struct {
	BaseURL        string `env:"BACKEND_BASE_URL,required,notEmpty"`
	TimeoutSeconds int    `env:"BACKEND_TIMEOUT_SECONDS" envDefault:"10"`
}

func LoadBackend() (BackendConfig, error) {
	var cfg BackendConfig
	err := env.Parse(&cfg)
	return cfg, err
}
