package config

import (
	"fmt"
	"time"
)

type ClientApp struct {
	LogFile  string
	LogLevel string
	FeedKey  string
}

type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	Token          string
}

type ClientDB struct {
	DSN string
}

type ClientStorage struct {
	DB ClientDB
}

// ClientSync tunes the sync-cache managers.
type ClientSync struct {
	PageSize         int
	MaxPages         int
	RefreshInterval  time.Duration
	SubscriberBuffer int
	MaxSubscribers   int
	AnalyticsBuffer  int
}

type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
}

func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig projects a merged [StructuredConfig] onto the client settings
// and validates them.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			LogFile:  cfg.App.LogFile,
			LogLevel: cfg.App.LogLevel,
			FeedKey:  cfg.App.FeedKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Sync: ClientSync{
			PageSize:         cfg.Sync.PageSize,
			MaxPages:         cfg.Sync.MaxPages,
			RefreshInterval:  cfg.Sync.RefreshInterval,
			SubscriberBuffer: cfg.Sync.SubscriberBuffer,
			MaxSubscribers:   cfg.Sync.MaxSubscribers,
			AnalyticsBuffer:  cfg.Sync.AnalyticsBuffer,
		},
	}

	return clientCfg, clientCfg.validate()
}
