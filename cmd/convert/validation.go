package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/pcc-scan/pkg/shared/files"
)

// validateConvertArgs validates the required command options and expands paths in place.
func validateConvertArgs(options *RunOptionsConvert, args []string) error {
	var (
		missing []string
		issues  []string
	)

	if len(args) > 0 {
		issues = append(issues, fmt.Sprintf("unexpected positional arguments: %s", strings.Join(args, ", ")))
	}

	if strings.TrimSpace(options.InputPath) == "" {
		missing = append(missing, "input")
	}
	if strings.TrimSpace(options.OutputPath) == "" {
		missing = append(missing, "output")
	}
	if strings.TrimSpace(options.ScannerVersion) == "" {
		missing = append(missing, "scanner-version")
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("missing required flags: %s", strings.Join(missing, ", ")))
	}

	if options.InputPath != "" {
		input, err := files.ExpandPath(options.InputPath)
		if err != nil {
			issues = append(issues, fmt.Sprintf("failed to expand input path: %v", err))
		} else if err := files.ValidatePath(input); err != nil {
			issues = append(issues, fmt.Sprintf("invalid input: %v", err))
		} else {
			options.InputPath = input
		}
	}

	if options.OutputPath != "" {
		output, err := files.ExpandPath(options.OutputPath)
		if err != nil {
			issues = append(issues, fmt.Sprintf("failed to expand output path: %v", err))
		} else {
			options.OutputPath = output
		}
		if options.InputPath != "" && filepath.Clean(options.InputPath) == filepath.Clean(options.OutputPath) {
			issues = append(issues, "'output' must differ from 'input'")
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}
	return nil
}
