package typegen

import (
	"bufio"
	"strings"
)

// GeneratorName identifies artifacts produced by this tool.
const GeneratorName = "shapegen"

const versionMarker = "Generator: " + GeneratorName + " "

// Metadata describes one generation run for artifact headers.
type Metadata struct {
	// Source is the display name of the input document, e.g. "default.json"
	Source string

	// Version is the generator version written into the header
	Version string

	// GoPackage is the package clause used by the Go generator
	GoPackage string
}

// HeaderLines returns the header comment text without comment markers.
// The first line follows the "Code generated ... DO NOT EDIT." convention.
func (m Metadata) HeaderLines() []string {
	source := m.Source
	if source == "" {
		source = "stdin"
	}
	version := m.Version
	if version == "" {
		version = "dev"
	}
	return []string{
		"Code generated by " + GeneratorName + " from " + source + ". DO NOT EDIT.",
		versionMarker + version,
	}
}

// HeaderVersion extracts the generator version recorded in an artifact
// header. Only the leading comment block is inspected.
func HeaderVersion(content string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for i := 0; scanner.Scan() && i < 10; i++ {
		line := scanner.Text()
		if idx := strings.Index(line, versionMarker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(versionMarker):]), true
		}
	}
	return "", false
}
