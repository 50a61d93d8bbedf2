package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/am"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
	"github.com/teranos/shapegen/version"
)

// genFlags are the generation overrides shared by gen, check, watch and
// describe. Only flags the user set override the configuration.
type genFlags struct {
	lang      string
	output    string
	name      string
	format    string
	goPackage string
	maxDepth  int

	flags interface{ Changed(string) bool }
}

func (f *genFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.lang, "lang", "l", am.DefaultLanguage, "Target language: python, typescript, go")
	fs.StringVarP(&f.output, "output", "o", "", "Output path (default: generated_class.<ext>, - for stdout)")
	fs.StringVarP(&f.name, "name", "n", "", "Root record name (default: derived from the input file name)")
	fs.StringVarP(&f.format, "format", "f", am.DefaultFormat, "Input format: auto, json, yaml, toml")
	fs.StringVar(&f.goPackage, "go-package", am.DefaultGoPackage, "Package clause for --lang go")
	fs.IntVar(&f.maxDepth, "max-depth", am.DefaultMaxDepth, "Maximum document nesting depth")
	f.flags = fs
}

// apply overlays the flags the user set onto cfg.
func (f *genFlags) apply(cfg *am.Config) *am.Config {
	out := *cfg
	if f.flags.Changed("lang") {
		out.Generate.Language = f.lang
	}
	if f.flags.Changed("output") {
		out.Output.Path = f.output
	}
	if f.flags.Changed("name") {
		out.Generate.RootName = f.name
	}
	if f.flags.Changed("format") {
		out.Generate.Format = f.format
	}
	if f.flags.Changed("go-package") {
		out.Output.GoPackage = f.goPackage
	}
	if f.flags.Changed("max-depth") {
		out.Generate.MaxDepth = f.maxDepth
	}
	return &out
}

// run is the fully resolved input of one command invocation.
type run struct {
	cfg   *am.Config
	opts  generate.Options
	input string
}

// resolve loads configuration, applies flags and picks the input location.
func (f *genFlags) resolve(g *globalFlags, args []string) (*run, error) {
	base, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg := f.apply(base)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := cfg.GenerateOptions(version.Version)
	if err != nil {
		return nil, err
	}
	opts.Verbosity = g.verbosity

	input := cfg.Source.DefaultPath
	if len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrSourceNotFound, "no input given"),
			"pass the input path as the first argument or set source.default_path")
	}
	return &run{cfg: cfg, opts: opts, input: input}, nil
}
