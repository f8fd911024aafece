package config

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		// twistcli binaries are large, the download needs more than an API call
		Timeout: 60 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	return RestyHttpClientConfig{
		BaseHTTPConfig: DefaultHttpConfig(),
		Debug:          false,
	}
}

// GetTwistcliCacheFolder returns the folder downloaded twistcli binaries are kept in.
func GetTwistcliCacheFolder(cfg *Config) string {
	if cfg != nil && cfg.Twistcli.CacheFolder != "" {
		return cfg.Twistcli.CacheFolder
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pcc-scan", "twistcli")
	}
	return filepath.Join(os.TempDir(), "pcc-scan", "twistcli")
}
