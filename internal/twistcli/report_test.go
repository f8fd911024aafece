package twistcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportScores(t *testing.T) {
	report, err := ParseReport([]byte(`{"results":[{"name":"app","vulnerabilities":[
		{"id":"a","cvss":7.5},
		{"id":"b","cvss":"5.3"},
		{"id":"c","cvss":0},
		{"id":"d","cvss":null},
		{"id":"e"}
	]}]}`))
	require.NoError(t, err)

	vulns := report.Results[0].Vulnerabilities
	require.Len(t, vulns, 5)
	assert.Equal(t, Score("7.5"), *vulns[0].CVSS)
	assert.Equal(t, Score("5.3"), *vulns[1].CVSS)
	assert.Equal(t, Score("0"), *vulns[2].CVSS)
	assert.Nil(t, vulns[3].CVSS)
	assert.Nil(t, vulns[4].CVSS)
}

func TestParseReportRejectsInvalidScore(t *testing.T) {
	_, err := ParseReport([]byte(`{"results":[{"vulnerabilities":[{"id":"a","cvss":true}]}]}`))
	assert.Error(t, err)
}

func TestReportFirst(t *testing.T) {
	report, err := ParseReport([]byte(`{"results":[{"name":"one"},{"name":"two"},{"name":"three"}]}`))
	require.NoError(t, err)

	first, skipped, err := report.First()
	require.NoError(t, err)
	assert.Equal(t, "one", first.Name)
	assert.Equal(t, 2, skipped)

	_, _, err = (&Report{}).First()
	assert.Error(t, err)
}

func TestReadReportMissingFile(t *testing.T) {
	_, err := ReadReport(t.TempDir() + "/absent.json")
	assert.Error(t, err)
}
