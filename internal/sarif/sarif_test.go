package sarif

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleVulnerabilityReport = `{
  "results": [
    {
      "name": "registry.example.com/app:1.0",
      "vulnerabilities": [
        {
          "id": "CVE-2024-0001",
          "severity": "high",
          "packageName": "libfoo",
          "packageVersion": "1.2.3",
          "link": "http://x",
          "publishedDate": "2024-01-01",
          "discoveredDate": "2024-01-02",
          "description": "desc"
        }
      ]
    }
  ]
}`

const mixedReport = `{
  "results": [
    {
      "name": "app:latest",
      "compliances": [
        {"id": "C-1", "severity": "low", "title": "Check X", "description": "d"},
        {"id": "C-2", "severity": "high", "title": "Check Y", "description": "e"}
      ],
      "vulnerabilities": [
        {"id": "CVE-1", "severity": "critical", "packageName": "a", "packageVersion": "1", "link": "l1", "cvss": 9.8, "status": "fixed in 2", "publishedDate": "p", "discoveredDate": "d", "description": "one"},
        {"id": "CVE-2", "severity": "medium", "packageName": "b", "packageVersion": "2", "link": "l2", "cvss": 0, "publishedDate": "p", "discoveredDate": "d", "description": "two"},
        {"id": "CVE-1", "severity": "critical", "packageName": "c", "packageVersion": "3", "link": "l1", "publishedDate": "p", "discoveredDate": "d", "description": "three"}
      ]
    },
    {
      "name": "ignored:latest",
      "vulnerabilities": [
        {"id": "CVE-9", "severity": "low", "packageName": "z", "packageVersion": "9", "link": "l9", "publishedDate": "p", "discoveredDate": "d", "description": "ignored"}
      ]
    }
  ]
}`

func writeResults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcc_scan_results.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ruleIDs(rules []*gosarif.ReportingDescriptor) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

func resultRuleIDs(results []*gosarif.Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, *r.RuleID)
	}
	return ids
}

func TestAssembleEmptyFindings(t *testing.T) {
	path := writeResults(t, `{"results":[{"name":"app:1"}]}`)

	report, err := Assemble("22.06.179", path)
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Empty(t, run.Tool.Driver.Rules)
	assert.Empty(t, run.Results)
}

func TestAssembleSingleVulnerability(t *testing.T) {
	path := writeResults(t, singleVulnerabilityReport)

	report, err := Assemble("22.06.179", path)
	require.NoError(t, err)

	driver := report.Runs[0].Tool.Driver
	assert.Equal(t, ToolName, driver.Name)
	require.NotNil(t, driver.Version)
	assert.Equal(t, "22.06.179", *driver.Version)

	require.Len(t, driver.Rules, 1)
	rule := driver.Rules[0]
	assert.Equal(t, "CVE-2024-0001", rule.ID)
	assert.Equal(t, "[Prisma Cloud] CVE-2024-0001 in libfoo (high)", *rule.ShortDescription.Text)
	assert.Equal(t, "High severity CVE-2024-0001 found in libfoo version 1.2.3", *rule.FullDescription.Text)
	assert.Equal(t, "", *rule.Help.Text)
	assert.Equal(t,
		"| CVE | Severity | CVSS | Package | Version | Fix Status | Published | Discovered |\n"+
			"| --- | --- | --- | --- | --- | --- | --- | --- |\n"+
			"| [CVE-2024-0001](http://x) | high | N/A | libfoo | 1.2.3 | not fixed | 2024-01-01 | 2024-01-02 |\n",
		*rule.Help.Markdown)

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "CVE-2024-0001", *result.RuleID)
	assert.Equal(t, "warning", *result.Level)
	assert.Equal(t, "Description:\ndesc", *result.Message.Text)

	require.Len(t, result.Locations, 1)
	physical := result.Locations[0].PhysicalLocation
	assert.Equal(t, "registry.example.com/app:1.0", *physical.ArtifactLocation.URI)
	assert.Equal(t, 1, *physical.Region.StartLine)
	assert.Equal(t, 1, *physical.Region.StartColumn)
	assert.Equal(t, 1, *physical.Region.EndLine)
	assert.Equal(t, 1, *physical.Region.EndColumn)
}

func TestAssembleSingleCompliance(t *testing.T) {
	path := writeResults(t, `{"results":[{"name":"app:1","compliances":[{"id":"C-1","severity":"low","title":"Check X","description":"d"}]}]}`)

	report, err := Assemble("1.0", path)
	require.NoError(t, err)

	rule := report.Runs[0].Tool.Driver.Rules[0]
	assert.Equal(t, "[Prisma Cloud] Compliance check C-1 violated (low)", *rule.ShortDescription.Text)
	assert.Equal(t, `Low severity compliance check "Check X" violated`, *rule.FullDescription.Text)
	assert.Equal(t, "| Compliance Check | Severity | Title |\n| --- | --- | --- |\n| C-1 | low | Check X |\n", *rule.Help.Markdown)

	result := report.Runs[0].Results[0]
	assert.Equal(t, "C-1", *result.RuleID)
	assert.Equal(t, "warning", *result.Level)
	assert.True(t, strings.HasPrefix(*result.Message.Text, "Description:\nd"))
}

func TestAssembleOrderingAndCounts(t *testing.T) {
	path := writeResults(t, mixedReport)

	report, err := Assemble("1.0", path)
	require.NoError(t, err)

	run := report.Runs[0]
	want := []string{"CVE-1", "CVE-2", "CVE-1", "C-1", "C-2"}
	assert.Equal(t, want, ruleIDs(run.Tool.Driver.Rules))
	assert.Equal(t, want, resultRuleIDs(run.Results))

	for _, result := range run.Results {
		assert.Equal(t, "app:latest", *result.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	}
}

func TestAssembleOptionalFieldDefaults(t *testing.T) {
	path := writeResults(t, mixedReport)

	report, err := Assemble("1.0", path)
	require.NoError(t, err)
	rules := report.Runs[0].Tool.Driver.Rules

	assert.Contains(t, *rules[0].Help.Markdown, "| 9.8 |")
	assert.Contains(t, *rules[0].Help.Markdown, "| fixed in 2 |")
	// a present zero score is not replaced by the default
	assert.Contains(t, *rules[1].Help.Markdown, "| medium | 0 |")
	assert.Contains(t, *rules[1].Help.Markdown, "| not fixed |")
	assert.Contains(t, *rules[2].Help.Markdown, "| N/A |")

	piped := writeResults(t, `{"results":[{"name":"app","vulnerabilities":[
	  {"id":"CVE-3","severity":"low","packageName":"x","packageVersion":"1","link":"https://nvd.example/q?a=1|b=2","status":"fixed\nin 2","publishedDate":"p","discoveredDate":"d","description":"three"}]}]}`)
	report, err = Assemble("1.0", piped)
	require.NoError(t, err)
	markdown := *report.Runs[0].Tool.Driver.Rules[0].Help.Markdown
	assert.Contains(t, markdown, `| [CVE-3](https://nvd.example/q?a=1\|b=2) | low |`)
	assert.Contains(t, markdown, "| fixed in 2 |")
	assert.Len(t, strings.Split(strings.TrimSpace(markdown), "\n"), 3)
}

func TestAssembleRoundTrip(t *testing.T) {
	path := writeResults(t, mixedReport)

	report, err := Assemble("22.06.179", path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out", "pcc_scan_results.sarif.json")
	require.NoError(t, WriteReport(report, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var parsed gosarif.Report
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2.1.0", parsed.Version)
	require.Len(t, parsed.Runs, 1)
	assert.Equal(t, ToolName, parsed.Runs[0].Tool.Driver.Name)
	assert.Len(t, parsed.Runs[0].Results, 5)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, SchemaURI, raw["$schema"])
}

func TestAssembleDoesNotMutateInputFile(t *testing.T) {
	path := writeResults(t, mixedReport)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Assemble("1.0", path)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, after))
}

func TestAssembleFormattingErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "not json", content: "twistcli: unable to connect"},
		{name: "wrong shape", content: `{"results": "nope"}`},
		{name: "no results", content: `{"results": []}`},
		{name: "missing results", content: `{}`},
		{name: "empty severity", content: `{"results":[{"name":"a","compliances":[{"id":"C-1","severity":"","title":"t","description":"d"}]}]}`},
		{name: "missing file", missing: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.json")
			if !tc.missing {
				path = writeResults(t, tc.content)
			}

			report, err := Assemble("1.0", path)
			assert.Nil(t, report)
			require.Error(t, err)

			var formattingErr *FormattingError
			require.True(t, errors.As(err, &formattingErr), "expected FormattingError, got %T", err)
			assert.Equal(t, path, formattingErr.Path)
		})
	}
}

func TestEmptySeverityIsReported(t *testing.T) {
	path := writeResults(t, `{"results":[{"name":"a","vulnerabilities":[{"id":"CVE-1","severity":"","packageName":"p","packageVersion":"1"}]}]}`)

	_, err := Assemble("1.0", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyText))
	assert.Contains(t, err.Error(), "CVE-1")
}
