// Package typegen renders an inferred schema as source code in a target
// language.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic inference (package infer) produces a schema.Schema
//  2. Language-specific generators (python/, typescript/, golang/) format it
//
// Every generator renders the same three behaviors per record: defaults
// captured from the example document, construction-time normalization of
// nested objects into records, and serialization back to plain containers.
//
// # Design Decisions
//
//   - Records are emitted in schema.Schema.All order: every record after the
//     records it references, the root last
//   - Output is a pure function of the schema and Metadata, so `shapegen
//     check` can compare byte-for-byte (minus the version line)
//   - Field keys that are not identifiers are sanitized per language and
//     mapped back to the original key on serialization
//
// # Implementing a New Generator
//
//  1. Create package: typegen/<language>/generator.go
//  2. Implement the Generator interface (see below)
//  3. Register it in generate.NewGenerator
//  4. Add the language to the --lang flag help in cmd/shapegen/commands
package typegen

import "github.com/teranos/shapegen/schema"

// Generator defines the interface for language-specific emitters.
type Generator interface {
	// GenerateFile renders every record of s, root last, into one artifact
	GenerateFile(s *schema.Schema, meta Metadata) (string, error)

	// FileExtension returns the file extension for this language (e.g., "py", "ts", "go")
	FileExtension() string

	// Language returns the language name (e.g., "python", "typescript")
	Language() string
}
