package scan

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/scan-io-git/pcc-scan/internal/ci"
	"github.com/scan-io-git/pcc-scan/pkg/shared/files"
)

// validateScanArgs validates the required command options and normalizes them in place.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	var (
		missing []string
		issues  []string
	)

	if len(args) > 0 {
		issues = append(issues, fmt.Sprintf("unexpected positional arguments: %s", strings.Join(args, ", ")))
	}

	required := []struct {
		flag  string
		value string
	}{
		{"image", options.Image},
		{"console-url", options.ConsoleURL},
		{"user", options.User},
		{"password", options.Password},
		{"results-file", options.ResultsFile},
		{"sarif-file", options.SarifFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.flag)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("missing required flags: %s", strings.Join(missing, ", ")))
	}

	if options.Image != "" {
		if _, err := name.ParseReference(options.Image); err != nil {
			issues = append(issues, fmt.Sprintf("invalid image reference %q: %v", options.Image, err))
		}
	}

	if options.CI != "" {
		if _, err := ci.ParseCIKind(options.CI); err != nil {
			issues = append(issues, fmt.Sprintf("invalid 'ci': %v", err))
		}
	}

	if options.ConsoleURL != "" {
		u, err := url.Parse(options.ConsoleURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			issues = append(issues, fmt.Sprintf("invalid console url %q", options.ConsoleURL))
		} else {
			options.ConsoleURL = strings.TrimRight(options.ConsoleURL, "/")
		}
	}

	for _, p := range []*string{&options.ResultsFile, &options.SarifFile, &options.TwistcliPath} {
		expanded, err := files.ExpandPath(*p)
		if err != nil {
			issues = append(issues, fmt.Sprintf("failed to expand path %q: %v", *p, err))
			continue
		}
		*p = expanded
	}
	if options.ResultsFile != "" && filepath.Clean(options.ResultsFile) == filepath.Clean(options.SarifFile) {
		issues = append(issues, "'sarif-file' must differ from 'results-file'")
	}

	tlsFiles := []struct {
		flag string
		path string
	}{
		{"docker-tlscacert", options.Docker.TLSCACert},
		{"docker-tlscert", options.Docker.TLSCert},
		{"docker-tlskey", options.Docker.TLSKey},
	}
	for _, f := range tlsFiles {
		if f.path == "" {
			continue
		}
		if err := files.ValidatePath(f.path); err != nil {
			issues = append(issues, fmt.Sprintf("invalid '%s': %v", f.flag, err))
		}
	}
	if (options.Docker.TLSCert == "") != (options.Docker.TLSKey == "") {
		issues = append(issues, "'docker-tlscert' and 'docker-tlskey' must be set together")
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}
	return nil
}
