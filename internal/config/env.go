package config

import "github.com/caarlos0/env/v11"

type LogConfig struct {
	Level  string `env:"SWELL_LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"SWELL_LOG_PRETTY" envDefault:"false"`
	File   string `env:"SWELL_LOG_FILE"`
	MaxMB  int    `env:"SWELL_LOG_MAX_MB" envDefault:"10"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// Secrets are credentials that never live in the config file.
type Secrets struct {
	Username string `env:"SWELL_USERNAME"`
	Password string `env:"SWELL_PASSWORD"`
}

func LoadSecrets() (Secrets, error) {
	var s Secrets
	err := env.Parse(&s)
	return s, err
}
