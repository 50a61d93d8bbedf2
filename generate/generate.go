// Package generate drives one generation run: locate and parse the input
// document, infer its schema, and render it through a language Generator.
// It is the only package that ties source, infer and typegen together;
// the CLI and the MCP server both call into it.
package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/infer"
	"github.com/teranos/shapegen/logger"
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/schema/naming"
	"github.com/teranos/shapegen/source"
	"github.com/teranos/shapegen/typegen"
	"github.com/teranos/shapegen/typegen/golang"
	"github.com/teranos/shapegen/typegen/python"
	"github.com/teranos/shapegen/typegen/typescript"
)

// DefaultLanguage is the target used when Options.Language is empty.
const DefaultLanguage = "python"

// DefaultOutputBase is the artifact file name without extension.
const DefaultOutputBase = "generated_class"

// Stdout is the output path that writes the artifact to standard output.
const Stdout = "-"

var generators = map[string]func() typegen.Generator{
	"python":     func() typegen.Generator { return python.NewGenerator() },
	"typescript": func() typegen.Generator { return typescript.NewGenerator() },
	"go":         func() typegen.Generator { return golang.NewGenerator() },
}

var languageAliases = map[string]string{
	"py":     "python",
	"ts":     "typescript",
	"golang": "go",
}

// Options configures a run. Zero values select defaults.
type Options struct {
	// Language is python, typescript or go (aliases py, ts, golang)
	Language string
	// RootName names the root record; derived from the source name when empty
	RootName string
	// FallbackName names records whose key yields no usable name
	FallbackName string
	// MaxDepth bounds document nesting
	MaxDepth int
	// Format forces the input format instead of detecting it from the name
	Format document.Format
	// GoPackage is the package clause for the go target
	GoPackage string
	// Version is written into the artifact header
	Version string
	// Inflector overrides the heuristic singularizer
	Inflector naming.Inflector
	// Verbosity is the CLI verbosity count; -vvv traces every field
	Verbosity int
}

// Result is one rendered artifact.
type Result struct {
	Schema    *schema.Schema
	Content   string
	Language  string
	Extension string
	// Source is the display name of the input, e.g. "default.json"
	Source string
}

// Languages lists the supported target languages, sorted.
func Languages() []string {
	langs := make([]string, 0, len(generators))
	for name := range generators {
		langs = append(langs, name)
	}
	sort.Strings(langs)
	return langs
}

// NewGenerator returns the generator for lang.
func NewGenerator(lang string) (typegen.Generator, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	if canonical, ok := languageAliases[lang]; ok {
		lang = canonical
	}
	ctor, ok := generators[lang]
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownLanguage, "%q", lang),
			fmt.Sprintf("supported languages: %v", Languages()))
	}
	return ctor(), nil
}

// Generate infers a schema from an already parsed document and renders it.
// sourceName is used for the artifact header and, when opts.RootName is
// empty, for the root record name.
func Generate(v document.Value, sourceName string, opts Options) (*Result, error) {
	start := time.Now()

	gen, err := NewGenerator(opts.Language)
	if err != nil {
		return nil, err
	}

	s, err := Infer(v, sourceName, opts)
	if err != nil {
		return nil, err
	}

	content, err := gen.GenerateFile(s, typegen.Metadata{
		Source:    sourceName,
		Version:   opts.Version,
		GoPackage: opts.GoPackage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %s", gen.Language())
	}

	log := logger.ChildLogger(logger.ComponentLogger("generate"), logger.FieldSource, sourceName)
	log.Debugw("Artifact rendered",
		logger.FieldLanguage, gen.Language(),
		logger.FieldRecord, s.Root.Name,
		logger.FieldCount, len(s.All()),
		logger.FieldSize, len(content),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		Schema:    s,
		Content:   content,
		Language:  gen.Language(),
		Extension: gen.FileExtension(),
		Source:    sourceName,
	}, nil
}

// Infer runs only the inference half of Generate.
func Infer(v document.Value, sourceName string, opts Options) (*schema.Schema, error) {
	rootName := opts.RootName
	if rootName == "" && sourceName != "" {
		rootName = (&source.Source{Name: sourceName}).RootName()
	}

	inf := infer.New(infer.Options{
		Inflector:    opts.Inflector,
		FallbackName: opts.FallbackName,
		MaxDepth:     opts.MaxDepth,
		Verbosity:    opts.Verbosity,
	})
	s, err := inf.InferSchema(v, rootName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to infer schema")
	}
	return s, nil
}

// FromSource parses a loaded source and renders it.
func FromSource(src *source.Source, opts Options) (*Result, error) {
	v, err := src.Parse(opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	return Generate(v, src.Name, opts)
}

// Run loads the document at location and renders it. A location that
// cannot be found yields an error satisfying errors.IsSourceNotFound.
func Run(ctx context.Context, location string, opts Options) (*Result, error) {
	src, err := source.Load(ctx, location, opts.Format)
	if err != nil {
		return nil, err
	}
	return FromSource(src, opts)
}

// DefaultOutputPath is generated_class.<ext> for the given extension.
func DefaultOutputPath(ext string) string {
	return DefaultOutputBase + "." + ext
}

// OutputPath resolves the destination for res: path itself, or the
// default artifact name when path is empty.
func (res *Result) OutputPath(path string) string {
	if path == "" {
		return DefaultOutputPath(res.Extension)
	}
	return path
}

// Write stores the artifact at path (see OutputPath) and returns the
// destination. Path "-" writes to stdout.
func Write(res *Result, path string, stdout io.Writer) (string, error) {
	dest := res.OutputPath(path)
	if dest == Stdout {
		if _, err := io.WriteString(stdout, res.Content); err != nil {
			return "", errors.Wrap(err, "failed to write artifact to stdout")
		}
		return dest, nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(dest, []byte(res.Content), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", dest)
	}

	logger.Infow("Artifact written",
		logger.FieldFile, dest,
		logger.FieldLanguage, res.Language,
		logger.FieldSize, len(res.Content))
	return dest, nil
}
