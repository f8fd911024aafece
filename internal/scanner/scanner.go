// Package scanner runs `twistcli images scan` against a single image.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/hashicorp/go-hclog"
)

const redacted = "********"

// DockerOptions points twistcli at a remote or TLS-protected Docker daemon.
type DockerOptions struct {
	Address   string
	TLSCACert string
	TLSCert   string
	TLSKey    string
}

// ScanRequest describes one image scan.
type ScanRequest struct {
	TwistcliPath string
	ConsoleURL   string
	User         string
	Password     string
	Image        string
	ResultsFile  string
	Docker       DockerOptions
}

// ScanResult reports how twistcli finished. A non-zero ExitCode means the image failed the
// console policy, it is not an execution error.
type ScanResult struct {
	ExitCode int
	Output   string
}

// Scanner represents the configuration and behavior of a twistcli run.
type Scanner struct {
	logger  hclog.Logger
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates a new Scanner instance.
func New(logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{
		logger:  logger,
		command: exec.CommandContext,
	}
}

// BuildArgs assembles the twistcli command line for req.
func BuildArgs(req ScanRequest) []string {
	args := []string{
		"images", "scan",
		"--address", req.ConsoleURL,
		"--user", req.User,
		"--password", req.Password,
	}

	dockerFlags := []struct {
		flag  string
		value string
	}{
		{"--docker-address", req.Docker.Address},
		{"--docker-tlscacert", req.Docker.TLSCACert},
		{"--docker-tlscert", req.Docker.TLSCert},
		{"--docker-tlskey", req.Docker.TLSKey},
	}
	for _, f := range dockerFlags {
		if f.value != "" {
			args = append(args, f.flag, f.value)
		}
	}

	return append(args, "--details", "--output-file", req.ResultsFile, req.Image)
}

// RedactArgs returns a copy of args safe for logging.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--password" {
			out[i+1] = redacted
		}
	}
	return out
}

// Scan runs twistcli and waits for it. The error is only set when twistcli could not be run.
func (s *Scanner) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	if req.TwistcliPath == "" {
		return ScanResult{}, fmt.Errorf("twistcli path is empty")
	}

	args := BuildArgs(req)
	s.logger.Info("scan is starting", "image", req.Image)
	s.logger.Debug("debug info", "cmd", append([]string{req.TwistcliPath}, RedactArgs(args)...))

	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(s.logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: false,
	}), &stdBuffer)

	cmd := s.command(ctx, req.TwistcliPath, args...)
	cmd.Stdout = mw
	cmd.Stderr = mw

	err := cmd.Run()
	result := ScanResult{Output: stdBuffer.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			s.logger.Warn("twistcli reported a failed scan", "image", req.Image, "exit_code", result.ExitCode)
			return result, nil
		}
		s.logger.Error("twistcli execution error", "err", err)
		return result, fmt.Errorf("failed to run twistcli: %w", err)
	}

	s.logger.Info("scan finished", "image", req.Image, "results", req.ResultsFile)
	return result, nil
}
