package config

import (
	"fmt"
	"time"
)

type ServerAuth struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

type ServerStorage struct {
	CatalogFile string
}

// ServerConfig configures the development API double.
type ServerConfig struct {
	Server  Server
	Auth    ServerAuth
	Storage ServerStorage
}

func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		Server: cfg.Server,
		Auth: ServerAuth{
			TokenSignKey:  cfg.Auth.TokenSignKey,
			TokenIssuer:   cfg.Auth.TokenIssuer,
			TokenDuration: cfg.Auth.TokenDuration,
		},
		Storage: ServerStorage{CatalogFile: cfg.Storage.CatalogFile},
	}

	return serverCfg, serverCfg.validate()
}
