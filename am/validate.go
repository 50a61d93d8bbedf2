package am

import (
	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := generate.NewGenerator(c.Generate.Language); err != nil {
		return errors.Wrap(err, "generate.language")
	}

	if _, err := document.ParseFormat(c.Generate.Format); err != nil {
		return errors.Wrap(err, "generate.format")
	}

	// Max depth: 0 would reject every document, negative is meaningless
	if c.Generate.MaxDepth <= 0 {
		return errors.Newf("generate.max_depth must be > 0, got %d", c.Generate.MaxDepth)
	}

	if c.Generate.FallbackName == "" {
		return errors.New("generate.fallback_name cannot be empty")
	}

	// Debounce: 0 selects the watcher default, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// GenerateOptions converts the configuration into driver options.
func (c *Config) GenerateOptions(version string) (generate.Options, error) {
	format, err := document.ParseFormat(c.Generate.Format)
	if err != nil {
		return generate.Options{}, errors.Wrap(err, "generate.format")
	}
	return generate.Options{
		Language:     c.Generate.Language,
		RootName:     c.Generate.RootName,
		FallbackName: c.Generate.FallbackName,
		MaxDepth:     c.Generate.MaxDepth,
		Format:       format,
		GoPackage:    c.Output.GoPackage,
		Version:      version,
	}, nil
}
