// Package commands implements the shapegen CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/am"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbosity  int
	jsonLogs   bool
	configPath string
}

// NewRootCmd builds the command tree. Running the root with an input is
// the same as `shapegen gen`.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	gen := &genFlags{}

	root := &cobra.Command{
		Use:   "shapegen [input]",
		Short: "Generate typed records from an example document",
		Long: `shapegen - infer record types from an example JSON, YAML or TOML document.

Every distinct object shape becomes one record type with the example's values
as defaults, construction-time conversion of nested objects into records,
and serialization back to plain maps and lists.

Available commands:
  gen       - Generate the artifact (default command)
  check     - Verify the artifact on disk is up to date
  watch     - Regenerate whenever the input changes
  describe  - Print the inferred records
  mcp       - Serve generation over MCP (stdio)
  am        - Show or initialize configuration
  version   - Show version information

Examples:
  shapegen                              # default.json -> generated_class.py
  shapegen config.yaml -l go -o models/config.go
  shapegen https://example.com/sample.json -l ts -o -
  shapegen check -o generated_class.py`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			jsonLogs := g.jsonLogs
			if !cmd.Flags().Changed("json-logs") {
				// A broken config is reported by the command itself
				if cfg, err := g.loadConfig(); err == nil {
					jsonLogs = cfg.Log.JSON
				}
			}
			if err := logger.Initialize(jsonLogs, g.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized",
				"verbosity", logger.LevelName(g.verbosity),
				"json", jsonLogs)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, g, gen, args)
		},
	}

	root.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().BoolVar(&g.jsonLogs, "json-logs", false, "Emit logs as JSON lines on stderr")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: shapegen.toml found upwards from the working directory)")
	gen.register(root)

	root.AddCommand(
		newGenCmd(g),
		newCheckCmd(g),
		newWatchCmd(g),
		newDescribeCmd(g),
		newMCPCmd(g),
		newAmCmd(g),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration selected by --config, or the
// discovered project configuration with environment overrides.
func (g *globalFlags) loadConfig() (*am.Config, error) {
	if g.configPath != "" {
		return am.LoadFromFile(g.configPath)
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}
