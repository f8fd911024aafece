package ci

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Output names published after a scan.
const (
	OutputResultsFile = "results_file"
	OutputSarifFile   = "sarif_file"
)

// WriteOutputs publishes step outputs. On GitHub they are appended to $GITHUB_OUTPUT,
// other providers have no equivalent and the values are only logged.
func WriteOutputs(logger hclog.Logger, env CIEnvironment, outputs map[string]string) error {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		logger.Info("step output", "name", k, "value", outputs[k])
	}

	if env.OutputFile == "" {
		return nil
	}

	var b strings.Builder
	for _, k := range keys {
		v := outputs[k]
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("output %q contains a line break", k)
		}
		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}

	f, err := os.OpenFile(env.OutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CI output file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write CI outputs: %w", err)
	}
	return nil
}
