// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the union of every setting both binaries understand.
// Each source (env, flags, JSON, defaults) is parsed into its own
// StructuredConfig and the results are merged by [configBuilder].
type StructuredConfig struct {
	App App `envPrefix:"APP_"`

	Adapter Adapter `envPrefix:"ADAPTER_"`

	Storage Storage `envPrefix:"STORAGE_"`

	Sync Sync `envPrefix:"SYNC_"`

	Server Server `envPrefix:"SERVER_"`

	Auth Auth `envPrefix:"AUTH_"`

	JSONFilePath string `env:"CONFIG"`
}

type App struct {
	LogFile string `env:"LOG_FILE"`

	LogLevel string `env:"LOG_LEVEL"`

	FeedKey string `env:"FEED_KEY"`
}

type Adapter struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	Token string `env:"TOKEN"`
}

type Storage struct {
	DB DB `envPrefix:"DB_"`

	CatalogFile string `env:"CATALOG_FILE"`
}

type DB struct {
	DSN string `env:"DATABASE_URI"`
}

type Sync struct {
	PageSize int `env:"PAGE_SIZE"`

	MaxPages int `env:"MAX_PAGES"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`

	SubscriberBuffer int `env:"SUBSCRIBER_BUFFER"`

	MaxSubscribers int `env:"MAX_SUBSCRIBERS"`

	AnalyticsBuffer int `env:"ANALYTICS_BUFFER"`
}

type Server struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

type Auth struct {
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	TokenIssuer string `env:"TOKEN_ISSUER"`

	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// defaults is merged last, so it only fills what no other source set.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogFile:  "munch-client.log",
			LogLevel: "debug",
			FeedKey:  "sg",
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{
			DB: DB{DSN: "munch.db"},
		},
		Sync: Sync{
			PageSize:         20,
			MaxPages:         500,
			RefreshInterval:  5 * time.Minute,
			SubscriberBuffer: 8,
			MaxSubscribers:   1,
			AnalyticsBuffer:  256,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Auth: Auth{
			TokenIssuer:   "munch-dev",
			TokenDuration: 24 * time.Hour,
		},
	}
}

// GetStructuredConfig assembles the configuration from env, command-line
// flags, an optional JSON file and built-in defaults.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
