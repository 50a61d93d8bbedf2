package generate

import (
	"os"

	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/logger"
	"github.com/teranos/shapegen/typegen"
	"github.com/teranos/shapegen/version"
)

// CheckReport is the outcome of comparing a fresh render with the artifact
// on disk.
type CheckReport struct {
	*typegen.CheckResult
	Path string
	// Missing is set when no artifact exists at Path
	Missing bool
	// NewerGenerator is set when the existing artifact was produced by a
	// later major version than opts.Version
	NewerGenerator bool
}

// Check compares res with the artifact at path (see Result.OutputPath).
// An out-of-date or missing artifact is reported both in the returned
// report and as an error satisfying errors.IsOutOfDate.
func Check(res *Result, path string, currentVersion string) (*CheckReport, error) {
	dest := res.OutputPath(path)
	if dest == Stdout {
		return nil, errors.WithHint(
			errors.New("cannot check an artifact written to stdout"),
			"pass --output with the artifact path")
	}

	existing, err := os.ReadFile(dest)
	if os.IsNotExist(err) {
		report := &CheckReport{CheckResult: &typegen.CheckResult{}, Path: dest, Missing: true}
		return report, errors.WithHint(
			errors.Wrapf(errors.ErrOutOfDate, "%s does not exist", dest),
			"run `shapegen gen` to create it")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", dest)
	}

	result, err := typegen.CompareArtifact(res.Content, string(existing), dest)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{CheckResult: result, Path: dest}
	if result.ExistingVersion != "" && version.NewerMajor(currentVersion, result.ExistingVersion) {
		report.NewerGenerator = true
		logger.Warnw("Artifact was produced by a newer generator",
			logger.FieldFile, dest,
			"existing_version", result.ExistingVersion,
			"current_version", currentVersion)
	}

	if !result.UpToDate {
		return report, errors.WithHint(
			errors.Wrapf(errors.ErrOutOfDate, "%s", dest),
			"run `shapegen gen` to regenerate it")
	}
	return report, nil
}
