// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_LOG_FILE":  "/tmp/client.log",
		"APP_LOG_LEVEL": "info",
		"APP_FEED_KEY":  "kl",

		"ADAPTER_ADDRESS":         "http://api.local:9000",
		"ADAPTER_REQUEST_TIMEOUT": "10s",
		"ADAPTER_TOKEN":           "bearer-token",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DATABASE_URI": "file:cache.db",
		"STORAGE_CATALOG_FILE":    "/var/catalog.json",

		"SYNC_PAGE_SIZE":         "50",
		"SYNC_MAX_PAGES":         "7",
		"SYNC_REFRESH_INTERVAL":  "1m",
		"SYNC_SUBSCRIBER_BUFFER": "4",
		"SYNC_MAX_SUBSCRIBERS":   "3",
		"SYNC_ANALYTICS_BUFFER":  "16",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"AUTH_TOKEN_SIGN_KEY": "jwt_secret",
		"AUTH_TOKEN_ISSUER":   "test_issuer",
		"AUTH_TOKEN_DURATION": "1h",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "/tmp/client.log", cfg.App.LogFile)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "kl", cfg.App.FeedKey)

	assert.Equal(t, "http://api.local:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "bearer-token", cfg.Adapter.Token)

	assert.Equal(t, "file:cache.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/var/catalog.json", cfg.Storage.CatalogFile)

	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 7, cfg.Sync.MaxPages)
	assert.Equal(t, time.Minute, cfg.Sync.RefreshInterval)
	assert.Equal(t, 4, cfg.Sync.SubscriberBuffer)
	assert.Equal(t, 3, cfg.Sync.MaxSubscribers)
	assert.Equal(t, 16, cfg.Sync.AnalyticsBuffer)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "jwt_secret", cfg.Auth.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.Auth.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"AUTH_TOKEN_SIGN_KEY": "jwt_secret",
		"SYNC_PAGE_SIZE":      "25",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "jwt_secret", cfg.Auth.TokenSignKey)
	assert.Empty(t, cfg.Auth.TokenIssuer)
	assert.Zero(t, cfg.Auth.TokenDuration)

	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Zero(t, cfg.Sync.RefreshInterval)

	assert.Empty(t, cfg.Adapter.HTTPAddress)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_Empty(t *testing.T) {
	clearEnvVars(t)

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "invalid duration", key: "SYNC_REFRESH_INTERVAL", val: "soon"},
		{name: "invalid int", key: "SYNC_PAGE_SIZE", val: "twenty"},
		{name: "invalid token duration", key: "AUTH_TOKEN_DURATION", val: "1 day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvVars(t, map[string]string{tt.key: tt.val})

			err := parseEnv(&StructuredConfig{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error getting env configs")
		})
	}
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"250ms", 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			setEnvVars(t, map[string]string{"ADAPTER_REQUEST_TIMEOUT": tt.input})

			cfg := &StructuredConfig{}
			require.NoError(t, parseEnv(cfg))
			assert.Equal(t, tt.expected, cfg.Adapter.RequestTimeout)
		})
	}
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_LOG_FILE",
		"APP_LOG_LEVEL",
		"APP_FEED_KEY",

		"ADAPTER_ADDRESS",
		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_TOKEN",

		"STORAGE_DB_DATABASE_URI",
		"STORAGE_CATALOG_FILE",

		"SYNC_PAGE_SIZE",
		"SYNC_MAX_PAGES",
		"SYNC_REFRESH_INTERVAL",
		"SYNC_SUBSCRIBER_BUFFER",
		"SYNC_MAX_SUBSCRIBERS",
		"SYNC_ANALYTICS_BUFFER",

		"SERVER_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",

		"AUTH_TOKEN_SIGN_KEY",
		"AUTH_TOKEN_ISSUER",
		"AUTH_TOKEN_DURATION",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}

func TestParseEnvFrom_ExplicitEnvironment(t *testing.T) {
	t.Setenv("SYNC_PAGE_SIZE", "99")

	cfg := &StructuredConfig{}
	err := parseEnvFrom(cfg, map[string]string{
		"SYNC_PAGE_SIZE": "25",
		"APP_FEED_KEY":   "us-ny",
	})

	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Equal(t, "us-ny", cfg.App.FeedKey)
}

func TestParseEnvFrom_InvalidValue(t *testing.T) {
	cfg := &StructuredConfig{}
	err := parseEnvFrom(cfg, map[string]string{"SYNC_REFRESH_INTERVAL": "soon"})

	assert.ErrorContains(t, err, "error getting env configs")
}
