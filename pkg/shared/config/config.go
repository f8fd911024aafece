package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultConfigFile is looked up in the working directory when no config path is given.
	DefaultConfigFile = "config.yml"

	envConfigPath   = "PCC_SCAN_CONFIG"
	envConsoleURL   = "PCC_CONSOLE_URL"
	envConsoleUser  = "PCC_USER"
	envConsolePass  = "PCC_PASS"
	envTwistcliPath = "PCC_TWISTCLI_PATH"
)

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HttpClient HttpClient `yaml:"http_client"`
	Console    Console    `yaml:"console"`
	Twistcli   Twistcli   `yaml:"twistcli"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HttpClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TlsClientConfig  TlsClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TlsClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Console holds the Prisma Cloud Compute console address and credentials.
type Console struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Twistcli controls where the scanner binary is taken from.
type Twistcli struct {
	Path        string `yaml:"path"`         // Path to a preinstalled twistcli, skips the download.
	CacheFolder string `yaml:"cache_folder"` // CacheFolder keeps downloaded binaries per console version.
	OS          string `yaml:"os"`           // OS overrides the platform of the downloaded binary.
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the config file if there is one and applies environment overrides.
// An explicitly requested file must exist, the default one is optional.
func LoadConfig(configPath string) (*Config, error) {
	return loadConfigWithLookup(configPath, os.Getenv)
}

func loadConfigWithLookup(configPath string, lookup func(string) string) (*Config, error) {
	cfg := &Config{}

	explicit := true
	if configPath == "" {
		configPath = lookup(envConfigPath)
	}
	if configPath == "" {
		configPath = DefaultConfigFile
		explicit = false
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg, lookup)
	return cfg, nil
}

// applyEnvOverrides gives environment variables priority over the config file.
func applyEnvOverrides(cfg *Config, lookup func(string) string) {
	overrides := map[string]*string{
		envConsoleURL:   &cfg.Console.URL,
		envConsoleUser:  &cfg.Console.User,
		envConsolePass:  &cfg.Console.Password,
		envTwistcliPath: &cfg.Twistcli.Path,
	}
	for env, field := range overrides {
		if v := lookup(env); v != "" {
			*field = v
		}
	}
}
