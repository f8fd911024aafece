package scan

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/pcc-scan/internal/ci"
	"github.com/scan-io-git/pcc-scan/internal/console"
	"github.com/scan-io-git/pcc-scan/internal/pipeline"
	"github.com/scan-io-git/pcc-scan/internal/scanner"
	"github.com/scan-io-git/pcc-scan/pkg/shared/config"
	"github.com/scan-io-git/pcc-scan/pkg/shared/errors"
)

const (
	defaultResultsFile = "pcc_scan_results.json"
	defaultSarifFile   = "pcc_scan_results.sarif.json"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Image        string
	ResultsFile  string
	SarifFile    string
	ConsoleURL   string
	User         string
	Password     string
	TwistcliPath string
	CI           string
	Docker       scanner.DockerOptions
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	logger      hclog.Logger
	scanOptions RunOptionsScan

	exampleScanUsage = `  # Scan an image, credentials taken from PCC_CONSOLE_URL, PCC_USER and PCC_PASS
  pcc-scan scan --image registry.example.com/app:1.0

  # Scan through a remote Docker daemon and choose the report locations
  pcc-scan scan --image app:1.0 --docker-address tcp://docker:2376 --docker-tlscacert ca.pem \
    --results-file out/results.json --sarif-file out/results.sarif.json`

	ScanCmd = &cobra.Command{
		Use:                   "scan --image IMAGE [--console-url URL --user USER --password PASSWORD] [--results-file PATH] [--sarif-file PATH]",
		Short:                 "Scan a container image with twistcli and write a SARIF report",
		Example:               exampleScanUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runScan,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runScan(cmd *cobra.Command, args []string) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if AppConfig == nil {
		AppConfig = &config.Config{}
	}

	applyConfigFallbacks(&scanOptions, AppConfig)
	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitCodeFailure)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := ci.Environment(scanOptions.CI)
	if err != nil {
		logger.Error("failed to resolve CI environment", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}
	logger.Debug("CI environment", "kind", env.Kind.String(), "repository", env.Repository, "reference", env.Reference, "commit", env.CommitHash)

	client := console.New(logger.Named("console"), AppConfig, scanOptions.ConsoleURL)
	result, runErr := pipeline.Run(ctx, logger, client, scanner.New(logger.Named("twistcli")), pipeline.Options{
		Image:        scanOptions.Image,
		ResultsFile:  scanOptions.ResultsFile,
		SarifFile:    scanOptions.SarifFile,
		ConsoleURL:   scanOptions.ConsoleURL,
		User:         scanOptions.User,
		Password:     scanOptions.Password,
		Docker:       scanOptions.Docker,
		TwistcliPath: scanOptions.TwistcliPath,
		CacheFolder:  config.GetTwistcliCacheFolder(AppConfig),
		OS:           AppConfig.Twistcli.OS,
	})

	if result != nil {
		outputs := map[string]string{
			ci.OutputResultsFile: result.ResultsFile,
			ci.OutputSarifFile:   result.SarifFile,
		}
		if err := ci.WriteOutputs(logger, env, outputs); err != nil {
			logger.Error("failed to publish CI outputs", "error", err)
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}
	}

	if runErr != nil {
		logger.Error("scan failed", "image", scanOptions.Image, "error", runErr)
		return errors.NewCommandError(runErr, errors.ExitCodeFailure)
	}
	return nil
}

// applyConfigFallbacks fills options not given on the command line from the config file and environment.
func applyConfigFallbacks(options *RunOptionsScan, cfg *config.Config) {
	if options.ConsoleURL == "" {
		options.ConsoleURL = cfg.Console.URL
	}
	if options.User == "" {
		options.User = cfg.Console.User
	}
	if options.Password == "" {
		options.Password = cfg.Console.Password
	}
	if options.TwistcliPath == "" {
		options.TwistcliPath = cfg.Twistcli.Path
	}
}

// registerDockerFlags binds the flags that point twistcli at a remote Docker daemon.
func registerDockerFlags(fs *pflag.FlagSet, opts *scanner.DockerOptions) {
	fs.StringVar(&opts.Address, "docker-address", "", "Docker daemon address twistcli connects to")
	fs.StringVar(&opts.TLSCACert, "docker-tlscacert", "", "CA certificate for the Docker daemon")
	fs.StringVar(&opts.TLSCert, "docker-tlscert", "", "Client certificate for the Docker daemon")
	fs.StringVar(&opts.TLSKey, "docker-tlskey", "", "Client key for the Docker daemon")
}

func init() {
	ScanCmd.Flags().StringVar(&scanOptions.Image, "image", "", "Container image to scan")
	ScanCmd.Flags().StringVar(&scanOptions.ResultsFile, "results-file", defaultResultsFile, "Path to the twistcli JSON results file")
	ScanCmd.Flags().StringVar(&scanOptions.SarifFile, "sarif-file", defaultSarifFile, "Path to the SARIF report")
	ScanCmd.Flags().StringVar(&scanOptions.ConsoleURL, "console-url", "", "Prisma Cloud Compute console URL (env PCC_CONSOLE_URL)")
	ScanCmd.Flags().StringVar(&scanOptions.User, "user", "", "Console user or access key (env PCC_USER)")
	ScanCmd.Flags().StringVar(&scanOptions.Password, "password", "", "Console password or secret key (env PCC_PASS)")
	ScanCmd.Flags().StringVar(&scanOptions.CI, "ci", "", "CI provider when it cannot be detected: github, gitlab or bitbucket (env PCC_SCAN_CI)")
	ScanCmd.Flags().StringVar(&scanOptions.TwistcliPath, "twistcli-path", "", "Use a preinstalled twistcli instead of downloading it (env PCC_TWISTCLI_PATH)")
	registerDockerFlags(ScanCmd.Flags(), &scanOptions.Docker)
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for scan command.")
}
