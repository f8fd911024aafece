// Package console talks to the Prisma Cloud Compute console API.
package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pcc-scan/pkg/shared/config"
	"github.com/scan-io-git/pcc-scan/pkg/shared/httpclient"
)

const (
	authenticatePath = "/api/v1/authenticate"
	versionPath      = "/api/v1/version"
)

// twistcliPaths maps a platform to the console endpoint serving its twistcli build.
var twistcliPaths = map[string]string{
	"linux":   "/api/v1/util/twistcli",
	"darwin":  "/api/v1/util/osx/twistcli",
	"windows": "/api/v1/util/windows/twistcli.exe",
}

// Client is an authenticated session against one console.
type Client struct {
	http   *resty.Client
	logger hclog.Logger
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type apiError struct {
	Err string `json:"err"`
}

// New builds a Client for baseURL using the shared resty configuration.
func New(logger hclog.Logger, cfg *config.Config, baseURL string) *Client {
	return NewWithRestyClient(logger, httpclient.InitializeRestyClient(logger, cfg), baseURL)
}

// NewWithRestyClient wraps an already configured resty client.
func NewWithRestyClient(logger hclog.Logger, client *resty.Client, baseURL string) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	return &Client{
		http:   client,
		logger: logger,
	}
}

// Authenticate exchanges credentials for a bearer token used by subsequent calls.
func (c *Client) Authenticate(ctx context.Context, user, password string) (string, error) {
	c.logger.Debug("authenticating against console", "user", user)

	var result authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(authRequest{Username: user, Password: password}).
		SetResult(&result).
		SetError(&apiError{}).
		Post(authenticatePath)
	if err != nil {
		return "", fmt.Errorf("authentication request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("authentication failed: %s", describeError(resp))
	}
	if result.Token == "" {
		return "", fmt.Errorf("authentication response has no token")
	}

	c.http.SetAuthToken(result.Token)
	c.logger.Info("authenticated against console")
	return result.Token, nil
}

// Version returns the console version, which is also the version of the twistcli it serves.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Get(versionPath)
	if err != nil {
		return "", fmt.Errorf("version request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to get console version: %s", describeError(resp))
	}

	version := ParseVersion(resp.String())
	if version == "" {
		return "", fmt.Errorf("console returned an empty version")
	}
	c.logger.Debug("console version", "version", version)
	return version, nil
}

// DownloadTwistcli stores the twistcli build for goos at dest with executable permissions.
func (c *Client) DownloadTwistcli(ctx context.Context, goos, dest string) error {
	path, ok := twistcliPaths[goos]
	if !ok {
		return fmt.Errorf("twistcli is not available for %q", goos)
	}

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create twistcli folder: %w", err)
	}
	partial := dest + ".partial"
	defer os.Remove(partial)

	c.logger.Info("downloading twistcli", "os", goos, "path", dest)
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(partial).
		Get(path)
	if err != nil {
		return fmt.Errorf("twistcli download failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twistcli download failed: %s", resp.Status())
	}

	if err := os.Chmod(partial, 0755); err != nil {
		return fmt.Errorf("failed to make twistcli executable: %w", err)
	}
	if err := os.Rename(partial, dest); err != nil {
		return fmt.Errorf("failed to move twistcli into place: %w", err)
	}
	return nil
}

// ParseVersion strips whitespace and the JSON string quotes the console wraps its version in.
func ParseVersion(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), `"`)
}

func describeError(resp *resty.Response) string {
	if e, ok := resp.Error().(*apiError); ok && e.Err != "" {
		return fmt.Sprintf("%s: %s", resp.Status(), e.Err)
	}
	return resp.Status()
}
