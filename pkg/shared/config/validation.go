package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"
)

var supportedTwistcliOS = []string{"linux", "darwin", "windows"}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HttpClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateConsoleConfig(&cfg.Console); err != nil {
		return fmt.Errorf("YAML global config: console directive is invalid: %w", err)
	}
	if err := ValidateTwistcliConfig(&cfg.Twistcli); err != nil {
		return fmt.Errorf("YAML global config: twistcli directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HttpClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"retry_wait_time", httpConfig.RetryWaitTime},
		{"retry_max_wait_time", httpConfig.RetryMaxWaitTime},
		{"timeout", httpConfig.Timeout},
	}
	for _, d := range durations {
		if err := validateDuration(d.value, d.name, 100*time.Second); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// ValidateConsoleConfig normalizes the console URL. Credentials may arrive later from flags.
func ValidateConsoleConfig(console *Console) error {
	if console == nil {
		return fmt.Errorf("console configuration is nil")
	}
	if console.URL == "" {
		return nil
	}

	u, err := url.Parse(console.URL)
	if err != nil {
		return fmt.Errorf("invalid console url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("console url must use http or https scheme: %q", console.URL)
	}
	console.URL = strings.TrimRight(console.URL, "/")
	return nil
}

// ValidateTwistcliConfig fills in the platform and checks it is one the console serves.
func ValidateTwistcliConfig(twistcli *Twistcli) error {
	if twistcli == nil {
		return fmt.Errorf("twistcli configuration is nil")
	}
	if twistcli.OS == "" {
		twistcli.OS = runtime.GOOS
	}
	for _, goos := range supportedTwistcliOS {
		if twistcli.OS == goos {
			return nil
		}
	}
	return fmt.Errorf("unsupported twistcli os %q, expected one of: %s", twistcli.OS, strings.Join(supportedTwistcliOS, ", "))
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}
	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}
	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
