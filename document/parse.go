package document

import (
	"path/filepath"
	"strings"

	"github.com/teranos/shapegen/errors"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultMaxDepth bounds container nesting accepted by the parsers.
const DefaultMaxDepth = 512

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrUnknownFormat, "%q", s),
			"supported formats: auto, json, yaml, toml")
	}
}

// DetectFormat picks a format from a file name, defaulting to JSON.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes data in the given format with the default depth bound.
func Parse(data []byte, format Format) (Value, error) {
	return ParseWithLimit(data, format, DefaultMaxDepth)
}

// ParseWithLimit decodes data, failing with ErrNestingTooDeep when containers
// nest deeper than maxDepth. A non-positive maxDepth uses DefaultMaxDepth.
// Syntax errors are reported as ErrMalformedInput.
func ParseWithLimit(data []byte, format Format, maxDepth int) (Value, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	switch format {
	case FormatJSON, FormatAuto, "":
		return parseJSON(data, maxDepth)
	case FormatYAML:
		return parseYAML(data, maxDepth)
	case FormatTOML:
		return parseTOML(data, maxDepth)
	default:
		return Value{}, errors.Wrapf(errors.ErrUnknownFormat, "%q", string(format))
	}
}

func checkDepth(depth, maxDepth int) error {
	if depth > maxDepth {
		return errors.WithHint(
			errors.Wrapf(errors.ErrNestingTooDeep, "depth %d exceeds limit %d", depth, maxDepth),
			"raise generate.max_depth if the document is legitimately this deep")
	}
	return nil
}
