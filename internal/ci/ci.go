// Package ci detects the CI provider a scan runs in and publishes step outputs to it.
package ci

import (
	"fmt"
	"os"
	"strings"
)

// CIKind represents the type of CI.
type CIKind int

const (
	// CIUnknown indicates the CI provider could not be identified.
	CIUnknown CIKind = iota
	// CIGitHub identifies GitHub Actions.
	CIGitHub
	// CIGitLab identifies GitLab CI.
	CIGitLab
	// CIBitbucket identifies Bitbucket Pipelines.
	CIBitbucket
)

// EnvCIKind names the CI provider when it cannot be detected from the environment.
const EnvCIKind = "PCC_SCAN_CI"

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// CIEnvironment captures the CI metadata relevant to a scan run.
type CIEnvironment struct {
	Kind       CIKind // Kind identifies the CI provider.
	CommitHash string // CommitHash is the tip commit that triggered the job.
	Reference  string // Reference is the fully qualified git reference (e.g. refs/heads/main).
	Repository string // Repository is the namespace-qualified repository name.
	OutputFile string // OutputFile receives step outputs; only GitHub provides one.
}

// String returns the human-readable string representation of a CIKind.
func (c CIKind) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	case CIBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// ParseCIKind converts a string identifier into a CIKind value.
func ParseCIKind(raw string) (CIKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "github":
		return CIGitHub, nil
	case "gitlab":
		return CIGitLab, nil
	case "bitbucket":
		return CIBitbucket, nil
	default:
		return CIUnknown, fmt.Errorf("unsupported ci kind %q", raw)
	}
}

func detectCIKindWithLookup(lookup LookupFunc) CIKind {
	if lookup == nil {
		lookup = os.Getenv
	}

	if strings.EqualFold(lookup("GITHUB_ACTIONS"), "true") || lookup("GITHUB_REPOSITORY") != "" {
		return CIGitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return CIGitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return CIBitbucket
	}

	return CIUnknown
}

// Environment resolves the CI metadata from the process environment.
// When the provider cannot be detected, override or $PCC_SCAN_CI names it.
func Environment(override string) (CIEnvironment, error) {
	return environmentWithLookup(os.Getenv, override)
}

func environmentWithLookup(lookup LookupFunc, override string) (CIEnvironment, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	env := CIEnvironment{Kind: detectCIKindWithLookup(lookup)}
	if env.Kind == CIUnknown {
		raw := override
		if raw == "" {
			raw = lookup(EnvCIKind)
		}
		if raw != "" {
			kind, err := ParseCIKind(raw)
			if err != nil {
				return CIEnvironment{}, err
			}
			env.Kind = kind
		}
	}

	switch env.Kind {
	case CIGitHub:
		// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
		env.CommitHash = lookup("GITHUB_SHA")
		env.Reference = lookup("GITHUB_REF")
		env.Repository = lookup("GITHUB_REPOSITORY")
		env.OutputFile = lookup("GITHUB_OUTPUT")
	case CIGitLab:
		// See https://docs.gitlab.com/ci/variables/predefined_variables/.
		env.CommitHash = lookup("CI_COMMIT_SHA")
		if tag := lookup("CI_COMMIT_TAG"); tag != "" {
			env.Reference = "refs/tags/" + tag
		} else if mrRef := lookup("CI_MERGE_REQUEST_REF_PATH"); mrRef != "" {
			env.Reference = mrRef
		} else if branch := lookup("CI_COMMIT_REF_NAME"); branch != "" {
			env.Reference = "refs/heads/" + branch
		}
		env.Repository = lookup("CI_PROJECT_PATH")
	case CIBitbucket:
		// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
		env.CommitHash = lookup("BITBUCKET_COMMIT")
		if tag := lookup("BITBUCKET_TAG"); tag != "" {
			env.Reference = "refs/tags/" + tag
		} else if branch := lookup("BITBUCKET_BRANCH"); branch != "" {
			env.Reference = "refs/heads/" + branch
		} else if pr := lookup("BITBUCKET_PR_ID"); pr != "" {
			env.Reference = "refs/pull/" + pr
		}
		env.Repository = lookup("BITBUCKET_REPO_FULL_NAME")
	}

	return env, nil
}
