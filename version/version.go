// Package version carries build information injected through ldflags:
//
//	go build -ldflags "-X github.com/teranos/shapegen/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("shapegen %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("shapegen dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// NewerMajor reports whether other was produced by a later major version
// than current. Unparseable versions (e.g. "dev") never compare as newer.
func NewerMajor(current, other string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	o, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	return o.Major() > cur.Major()
}
