// Package twistcli models the JSON results file written by `twistcli images scan --output-file`
// and locates the scanner binary.
package twistcli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Report is the top-level document of a twistcli results file.
type Report struct {
	Results []ImageScanResult `json:"results"`
}

// ImageScanResult holds the findings for one scanned image.
type ImageScanResult struct {
	ID                        string                `json:"id,omitempty"`
	Name                      string                `json:"name"`
	Distro                    string                `json:"distro,omitempty"`
	ComplianceScanPassed      *bool                 `json:"complianceScanPassed,omitempty"`
	VulnerabilityScanPassed   *bool                 `json:"vulnerabilityScanPassed,omitempty"`
	Vulnerabilities           []Vulnerability       `json:"vulnerabilities,omitempty"`
	Compliances               []ComplianceViolation `json:"compliances,omitempty"`
	VulnerabilityDistribution *SeverityDistribution `json:"vulnerabilityDistribution,omitempty"`
	ComplianceDistribution    *SeverityDistribution `json:"complianceDistribution,omitempty"`
}

// Vulnerability is a single package vulnerability reported for the image.
type Vulnerability struct {
	ID             string  `json:"id"`
	Severity       string  `json:"severity"`
	PackageName    string  `json:"packageName"`
	PackageVersion string  `json:"packageVersion"`
	Link           string  `json:"link"`
	CVSS           *Score  `json:"cvss,omitempty"`
	Status         *string `json:"status,omitempty"`
	PublishedDate  string  `json:"publishedDate"`
	DiscoveredDate string  `json:"discoveredDate"`
	Description    string  `json:"description"`
}

// ComplianceViolation is a failed compliance check.
type ComplianceViolation struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SeverityDistribution counts findings per severity.
type SeverityDistribution struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Score keeps the textual form of a CVSS score. twistcli writes it as a JSON number,
// older consoles as a string; both are accepted.
type Score string

// UnmarshalJSON accepts a JSON number or string.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Score(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cvss must be a number or a string: %w", err)
	}
	*s = Score(n.String())
	return nil
}

// ParseReport decodes a twistcli results document.
func ParseReport(data []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse scan results: %w", err)
	}
	return &report, nil
}

// ReadReport reads and decodes the results file at path.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan results %q: %w", path, err)
	}
	return ParseReport(data)
}

// First returns the single image result a run is built from, and how many others were present.
func (r *Report) First() (*ImageScanResult, int, error) {
	if r == nil || len(r.Results) == 0 {
		return nil, 0, fmt.Errorf("scan results contain no image results")
	}
	return &r.Results[0], len(r.Results) - 1, nil
}
