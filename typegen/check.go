package typegen

import (
	"bufio"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/shapegen/errors"
)

// CheckResult holds the result of comparing a fresh artifact with the one
// on disk.
type CheckResult struct {
	UpToDate bool
	// Diff is a unified diff from the existing artifact to the fresh one
	Diff string
	// ExistingVersion is the generator version recorded in the existing
	// artifact, empty when absent
	ExistingVersion string
}

// CompareArtifact compares generated output with existing content, ignoring
// the header line that records the generator version.
func CompareArtifact(generated, existing, existingName string) (*CheckResult, error) {
	result := &CheckResult{}
	result.ExistingVersion, _ = HeaderVersion(existing)

	a := filterMetadataLines(existing)
	b := filterMetadataLines(generated)
	if a == b {
		result.UpToDate = true
		return result, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: existingName,
		ToFile:   existingName + " (regenerated)",
		Context:  3,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render diff")
	}
	result.Diff = diff
	return result, nil
}

// filterMetadataLines removes the version line, which changes on every
// release without representing a change in generated types.
func filterMetadataLines(content string) string {
	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, versionMarker) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		// Unfiltered content makes the comparison fail rather than pass silently
		return content
	}

	return result.String()
}
