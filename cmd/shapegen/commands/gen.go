package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/generate"
)

func newGenCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "gen [input]",
		Short: "Generate record types from an example document",
		Long: `Generate record types from an example document.

The input is a local path, "-" for stdin, or any URL go-getter understands
(https://, s3::, git::). Without an argument source.default_path is used.

If the input cannot be found nothing is written and the command exits 1.

Examples:
  shapegen gen                          # default.json -> generated_class.py
  shapegen gen users.json -l ts         # -> generated_class.ts
  shapegen gen app.toml -n config -o -  # print to stdout`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, g, f, args)
		},
	}
	f.register(cmd)
	return cmd
}

func runGen(cmd *cobra.Command, g *globalFlags, f *genFlags, args []string) error {
	r, err := f.resolve(g, args)
	if err != nil {
		return err
	}

	res, err := generate.Run(cmd.Context(), r.input, r.opts)
	if err != nil {
		return err
	}

	dest, err := generate.Write(res, r.cfg.Output.Path, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if dest != generate.Stdout {
		pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Generated %s (%d records, %s)",
			dest, len(res.Schema.All()), res.Language)
	}
	return nil
}
