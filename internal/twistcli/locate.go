package twistcli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pcc-scan/pkg/shared/files"
)

// Downloader fetches a twistcli build from the console.
type Downloader interface {
	DownloadTwistcli(ctx context.Context, goos, dest string) error
}

// Locator decides which twistcli binary a scan runs with.
type Locator struct {
	ConfiguredPath string // ConfiguredPath is a preinstalled binary, used as is when set.
	CacheFolder    string // CacheFolder holds downloaded binaries, one folder per console version.
	OS             string // OS selects the platform build to download.
	Downloader     Downloader
	Logger         hclog.Logger
}

// Locate returns the path to a twistcli binary matching the console version,
// downloading it into the cache when it is not there yet.
func (l *Locator) Locate(ctx context.Context, version string) (string, error) {
	logger := l.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if l.ConfiguredPath != "" {
		path, err := files.ExpandPath(l.ConfiguredPath)
		if err != nil {
			return "", fmt.Errorf("failed to expand twistcli path %q: %w", l.ConfiguredPath, err)
		}
		if !files.IsExecutable(path) {
			return "", fmt.Errorf("configured twistcli %q is not an executable file", path)
		}
		logger.Debug("using configured twistcli", "path", path)
		return path, nil
	}

	if version == "" {
		return "", fmt.Errorf("console version is required to cache twistcli")
	}
	cached := filepath.Join(l.CacheFolder, version, binaryName(l.OS))
	if files.IsExecutable(cached) {
		logger.Debug("using cached twistcli", "path", cached, "version", version)
		return cached, nil
	}

	if l.Downloader == nil {
		return "", fmt.Errorf("twistcli %s is not cached and no downloader is set", version)
	}
	if err := l.Downloader.DownloadTwistcli(ctx, l.OS, cached); err != nil {
		return "", err
	}
	return cached, nil
}

func binaryName(goos string) string {
	if goos == "windows" {
		return "twistcli.exe"
	}
	return "twistcli"
}
