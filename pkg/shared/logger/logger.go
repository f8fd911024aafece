package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pcc-scan/pkg/shared/config"
)

// EnvLogLevel is consulted when the config file does not set a level.
const EnvLogLevel = "PCC_SCAN_LOG_LEVEL"

// NewLogger returns a named hclog logger writing to stdout.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return newLoggerWithOutput(cfg, name, os.Stdout)
}

func newLoggerWithOutput(cfg *config.Config, name string, output io.Writer) hclog.Logger {
	var logLevel hclog.Level

	if cfg != nil && cfg.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(cfg.Logger.Level))
	} else {
		// env variables has the second priority
		logLevel = getLogLevel(strings.ToUpper(os.Getenv(EnvLogLevel)))
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      output,
		Level:       logLevel,
	})
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
