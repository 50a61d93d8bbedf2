package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/shapegen/am"
	"github.com/teranos/shapegen/display"
	"github.com/teranos/shapegen/errors"
)

func newAmCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Show or initialize shapegen configuration",
		Long: `am - show or initialize shapegen configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SHAPEGEN_* prefix, e.g. SHAPEGEN_GENERATE_LANGUAGE)
3. Project config (shapegen.toml, searched upwards from the working directory)
4. Default values

Examples:
  shapegen am show                    # Show effective configuration
  shapegen am show --format json      # Show configuration as JSON
  shapegen am show --sources          # Show where each value came from
  shapegen am init                    # Write a default shapegen.toml`,
	}
	cmd.AddCommand(newAmShowCmd(g), newAmInitCmd())
	return cmd
}

func newAmShowCmd(g *globalFlags) *cobra.Command {
	var format string
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if sources {
				return showSources(cmd, g)
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			switch format {
			case "json":
				if err := display.OutputJSON(out, cfg); err != nil {
					return err
				}

			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to YAML")
				}
				fmt.Fprintf(out, "# shapegen configuration\n%s", string(data))

			case "toml":
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# shapegen configuration\n%s", string(data))

			default:
				return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.Flags().BoolVar(&sources, "sources", false, "Show the source of every setting")
	return cmd
}

func showSources(cmd *cobra.Command, g *globalFlags) error {
	var in *am.ConfigIntrospection
	if g.configPath != "" {
		v, err := am.ViperFromFile(g.configPath)
		if err != nil {
			return err
		}
		in = am.Introspect(v)
	} else {
		var err error
		in, err = am.GetConfigIntrospection()
		if err != nil {
			return err
		}
	}

	data := pterm.TableData{{"Key", "Value", "Source"}}
	for _, s := range in.Settings {
		src := string(s.Source)
		if s.SourcePath != "" && s.Source != am.SourceDefault {
			src += " (" + s.SourcePath + ")"
		}
		data = append(data, []string{s.Key, fmt.Sprintf("%v", s.Value), src})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render()
}

func newAmInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default " + am.ConfigFileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := am.ConfigFileName
			if len(args) > 0 {
				path = args[0]
			}
			if err := am.WriteDefault(path, force); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (kept as .back1)")
	return cmd
}
