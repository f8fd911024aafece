package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pcc-scan/cmd/convert"
	"github.com/scan-io-git/pcc-scan/cmd/scan"
	"github.com/scan-io-git/pcc-scan/cmd/version"
	"github.com/scan-io-git/pcc-scan/pkg/shared/config"
	"github.com/scan-io-git/pcc-scan/pkg/shared/errors"
	"github.com/scan-io-git/pcc-scan/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "pcc-scan [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "pcc-scan scans container images with Prisma Cloud twistcli and reports SARIF.",
		Long: `pcc-scan authenticates against a Prisma Cloud Compute console, retrieves twistcli,
	scans a container image and converts the findings into a SARIF 2.1.0 report for code scanning dashboards.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml if present)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(convert.ConvertCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("initializing config file failed: %w", err), errors.ExitCodeFailure)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	initSubcommands(AppConfig, logger.NewLogger(AppConfig, "core"))
	return nil
}

func initSubcommands(cfg *config.Config, l hclog.Logger) {
	scan.Init(cfg, l.Named("scan"))
	convert.Init(cfg, l.Named("convert"))
	version.Init(cfg)
}
