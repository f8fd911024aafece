package convert

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pcc-scan/internal/console"
	"github.com/scan-io-git/pcc-scan/internal/sarif"
	"github.com/scan-io-git/pcc-scan/pkg/shared/config"
	"github.com/scan-io-git/pcc-scan/pkg/shared/errors"
)

// RunOptionsConvert holds the arguments for the convert command.
type RunOptionsConvert struct {
	InputPath      string
	OutputPath     string
	ScannerVersion string
}

// Global variables for configuration and command arguments
var (
	AppConfig      *config.Config
	logger         hclog.Logger
	convertOptions RunOptionsConvert

	exampleConvertUsage = `  # Convert an existing twistcli results file
  pcc-scan convert --input pcc_scan_results.json --output pcc_scan_results.sarif.json --scanner-version 22.06.179`

	ConvertCmd = &cobra.Command{
		Use:                   "convert --input PATH --output PATH --scanner-version VERSION",
		Short:                 "Convert a twistcli JSON results file into a SARIF report",
		Example:               exampleConvertUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runConvert,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && convertOptions == (RunOptionsConvert{}) {
		return cmd.Help()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if err := validateConvertArgs(&convertOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitCodeFailure)
	}

	version := console.ParseVersion(convertOptions.ScannerVersion)
	report, err := sarif.NewConverter(logger).Convert(version, convertOptions.InputPath)
	if err != nil {
		logger.Error("failed to convert scan results", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	if err := sarif.WriteReport(report, convertOptions.OutputPath); err != nil {
		logger.Error("failed to save SARIF report", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	logger.Info("SARIF report is saved", "path", convertOptions.OutputPath)
	return nil
}

func init() {
	ConvertCmd.Flags().StringVarP(&convertOptions.InputPath, "input", "i", "", "Path to the twistcli JSON results file")
	ConvertCmd.Flags().StringVarP(&convertOptions.OutputPath, "output", "o", "", "Path to the SARIF report to write")
	ConvertCmd.Flags().StringVar(&convertOptions.ScannerVersion, "scanner-version", "", "twistcli version recorded as the SARIF tool version")
	ConvertCmd.Flags().BoolP("help", "h", false, "Show help for convert command.")
}
