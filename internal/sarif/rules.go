package sarif

import (
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/pcc-scan/internal/twistcli"
)

const (
	defaultCVSS   = "N/A"
	defaultStatus = "not fixed"
)

var (
	vulnerabilityHelpHeader = []string{"CVE", "Severity", "CVSS", "Package", "Version", "Fix Status", "Published", "Discovered"}
	complianceHelpHeader    = []string{"Compliance Check", "Severity", "Title"}
)

// ExtractRules builds one rule per finding: vulnerabilities first, then compliances, in input order.
// Repeated finding ids produce repeated rules.
func ExtractRules(result *twistcli.ImageScanResult) ([]*sarif.ReportingDescriptor, error) {
	rules := make([]*sarif.ReportingDescriptor, 0, len(result.Vulnerabilities)+len(result.Compliances))

	for i := range result.Vulnerabilities {
		rule, err := vulnerabilityRule(&result.Vulnerabilities[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	for i := range result.Compliances {
		rule, err := complianceRule(&result.Compliances[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func vulnerabilityRule(v *twistcli.Vulnerability) (*sarif.ReportingDescriptor, error) {
	severity, err := SentenceCase(v.Severity)
	if err != nil {
		return nil, fmt.Errorf("vulnerability %q has no severity: %w", v.ID, err)
	}

	cvss := defaultCVSS
	if v.CVSS != nil {
		cvss = string(*v.CVSS)
	}
	status := defaultStatus
	if v.Status != nil {
		status = *v.Status
	}

	help := markdownTable(vulnerabilityHelpHeader, []string{
		fmt.Sprintf("[%s](%s)", v.ID, v.Link),
		v.Severity,
		cvss,
		v.PackageName,
		v.PackageVersion,
		status,
		v.PublishedDate,
		v.DiscoveredDate,
	})

	return newRule(
		v.ID,
		fmt.Sprintf("[Prisma Cloud] %s in %s (%s)", v.ID, v.PackageName, v.Severity),
		fmt.Sprintf("%s severity %s found in %s version %s", severity, v.ID, v.PackageName, v.PackageVersion),
		help,
	), nil
}

func complianceRule(c *twistcli.ComplianceViolation) (*sarif.ReportingDescriptor, error) {
	severity, err := SentenceCase(c.Severity)
	if err != nil {
		return nil, fmt.Errorf("compliance check %q has no severity: %w", c.ID, err)
	}

	help := markdownTable(complianceHelpHeader, []string{c.ID, c.Severity, c.Title})

	return newRule(
		c.ID,
		fmt.Sprintf("[Prisma Cloud] Compliance check %s violated (%s)", c.ID, c.Severity),
		fmt.Sprintf("%s severity compliance check \"%s\" violated", severity, c.Title),
		help,
	), nil
}

func newRule(id, short, full, markdown string) *sarif.ReportingDescriptor {
	helpText := ""
	rule := sarif.NewRule(id)
	rule.ShortDescription = &sarif.MultiformatMessageString{Text: &short}
	rule.FullDescription = &sarif.MultiformatMessageString{Text: &full}
	rule.Help = &sarif.MultiformatMessageString{Text: &helpText, Markdown: &markdown}
	return rule
}
