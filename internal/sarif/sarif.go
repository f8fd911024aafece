// Package sarif converts twistcli scan results into SARIF 2.1.0 reports.
package sarif

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/pcc-scan/internal/twistcli"
	"github.com/scan-io-git/pcc-scan/pkg/shared/files"
)

const (
	// ToolName is the driver name of every produced run.
	ToolName = "Prisma Cloud (twistcli)"
	// SchemaURI is the SARIF 2.1.0 JSON schema location.
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

// Converter turns twistcli results files into SARIF reports.
type Converter struct {
	logger hclog.Logger
}

// NewConverter returns a Converter logging through logger. A nil logger discards output.
func NewConverter(logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{logger: logger}
}

// Assemble reads the twistcli results file and builds a SARIF report with a single run.
// Every failure is a *FormattingError and no report is returned with it.
func Assemble(scannerVersion, resultsFilePath string) (*sarif.Report, error) {
	return NewConverter(nil).Convert(scannerVersion, resultsFilePath)
}

// Convert is Assemble with logging.
func (c *Converter) Convert(scannerVersion, resultsFilePath string) (*sarif.Report, error) {
	c.logger.Debug("reading scan results", "path", resultsFilePath)

	scanReport, err := twistcli.ReadReport(resultsFilePath)
	if err != nil {
		return nil, newFormattingError(resultsFilePath, err)
	}

	imageResult, skipped, err := scanReport.First()
	if err != nil {
		return nil, newFormattingError(resultsFilePath, err)
	}
	if skipped > 0 {
		c.logger.Debug("only the first image result is converted", "image", imageResult.Name, "skipped", skipped)
	}

	report, err := c.build(scannerVersion, imageResult)
	if err != nil {
		return nil, newFormattingError(resultsFilePath, err)
	}

	c.logger.Info("SARIF report assembled",
		"image", imageResult.Name,
		"vulnerabilities", len(imageResult.Vulnerabilities),
		"compliances", len(imageResult.Compliances),
	)
	return report, nil
}

func (c *Converter) build(scannerVersion string, imageResult *twistcli.ImageScanResult) (*sarif.Report, error) {
	rules, err := ExtractRules(imageResult)
	if err != nil {
		return nil, err
	}
	results := MapResults(imageResult)

	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}
	report.Schema = SchemaURI

	version := scannerVersion
	report.AddRun(&sarif.Run{
		Tool: sarif.Tool{
			Driver: &sarif.ToolComponent{
				Name:    ToolName,
				Version: &version,
				Rules:   rules,
			},
		},
		Results: results,
	})

	return report, nil
}

// WriteReport pretty-prints report to outputPath.
func WriteReport(report *sarif.Report, outputPath string) error {
	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	if err := files.WriteJsonFile(outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write SARIF report %q: %w", outputPath, err)
	}
	return nil
}
