package sarif

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/pcc-scan/internal/twistcli"
)

// ResultLevel is the level of every result. twistcli severities are carried by the rules instead.
const ResultLevel = "warning"

const descriptionPrefix = "Description:\n"

// MapResults builds one result per finding occurrence, vulnerabilities first, then compliances.
func MapResults(result *twistcli.ImageScanResult) []*sarif.Result {
	results := make([]*sarif.Result, 0, len(result.Vulnerabilities)+len(result.Compliances))

	for _, v := range result.Vulnerabilities {
		results = append(results, newResult(v.ID, v.Description, result.Name))
	}
	for _, c := range result.Compliances {
		results = append(results, newResult(c.ID, c.Description, result.Name))
	}

	return results
}

func newResult(ruleID, description, imageName string) *sarif.Result {
	return sarif.NewRuleResult(ruleID).
		WithLevel(ResultLevel).
		WithMessage(sarif.NewTextMessage(descriptionPrefix + description)).
		WithLocations([]*sarif.Location{imageLocation(imageName)})
}

// imageLocation points at the scanned image. Findings have no source line, so the region is 1:1-1:1.
func imageLocation(imageName string) *sarif.Location {
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(imageName)).
			WithRegion(sarif.NewRegion().
				WithStartLine(1).
				WithStartColumn(1).
				WithEndLine(1).
				WithEndColumn(1)),
	)
}
