// Package pipeline wires authentication, twistcli retrieval, the image scan and the SARIF
// conversion into a single run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pcc-scan/internal/sarif"
	"github.com/scan-io-git/pcc-scan/internal/scanner"
	"github.com/scan-io-git/pcc-scan/internal/twistcli"
)

// ErrScanFailed is returned after the SARIF report was written when twistcli reported a failing image.
var ErrScanFailed = errors.New("image scan failed")

// Console is the part of the console API a run needs.
type Console interface {
	twistcli.Downloader
	Authenticate(ctx context.Context, user, password string) (string, error)
	Version(ctx context.Context) (string, error)
}

// Runner executes twistcli.
type Runner interface {
	Scan(ctx context.Context, req scanner.ScanRequest) (scanner.ScanResult, error)
}

// Options holds everything a run needs.
type Options struct {
	Image        string
	ResultsFile  string
	SarifFile    string
	ConsoleURL   string
	User         string
	Password     string
	Docker       scanner.DockerOptions
	TwistcliPath string
	CacheFolder  string
	OS           string
}

// Result summarizes a finished run.
type Result struct {
	ScannerVersion string
	ExitCode       int
	ResultsFile    string
	SarifFile      string
}

// Run authenticates, resolves twistcli, scans the image and writes the SARIF report.
// The SARIF report is written even when the scan fails the console policy; Run then
// returns the Result together with ErrScanFailed.
func Run(ctx context.Context, logger hclog.Logger, console Console, runner Runner, opts Options) (*Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if _, err := console.Authenticate(ctx, opts.User, opts.Password); err != nil {
		return nil, err
	}

	version, err := console.Version(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("console version resolved", "version", version)

	locator := &twistcli.Locator{
		ConfiguredPath: opts.TwistcliPath,
		CacheFolder:    opts.CacheFolder,
		OS:             opts.OS,
		Downloader:     console,
		Logger:         logger,
	}
	twistcliPath, err := locator.Locate(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get twistcli: %w", err)
	}

	scan, err := runner.Scan(ctx, scanner.ScanRequest{
		TwistcliPath: twistcliPath,
		ConsoleURL:   opts.ConsoleURL,
		User:         opts.User,
		Password:     opts.Password,
		Image:        opts.Image,
		ResultsFile:  opts.ResultsFile,
		Docker:       opts.Docker,
	})
	if err != nil {
		return nil, err
	}

	report, err := sarif.NewConverter(logger).Convert(version, opts.ResultsFile)
	if err != nil {
		if scan.ExitCode != 0 {
			return nil, fmt.Errorf("twistcli exited with code %d: %w", scan.ExitCode, err)
		}
		return nil, err
	}
	if err := sarif.WriteReport(report, opts.SarifFile); err != nil {
		return nil, err
	}
	logger.Info("SARIF report is saved", "path", opts.SarifFile)

	result := &Result{
		ScannerVersion: version,
		ExitCode:       scan.ExitCode,
		ResultsFile:    opts.ResultsFile,
		SarifFile:      opts.SarifFile,
	}
	if scan.ExitCode != 0 {
		return result, fmt.Errorf("%w: twistcli exited with code %d", ErrScanFailed, scan.ExitCode)
	}
	return result, nil
}
