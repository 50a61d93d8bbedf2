package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/display"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
	"github.com/teranos/shapegen/instance"
	"github.com/teranos/shapegen/source"
)

func newDescribeCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	var jsonOutput, sample bool

	cmd := &cobra.Command{
		Use:   "describe [input]",
		Short: "Print the records inferred from an example document",
		Long: `Print every inferred record with its fields, language-neutral types and
defaults, in emission order (root last).

With --sample the root record is also built from its defaults, exactly as a
generated constructor would, and serialized back to JSON.

Examples:
  shapegen describe users.json
  shapegen describe users.json --json
  shapegen describe users.json --sample`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.resolve(g, args)
			if err != nil {
				return err
			}

			src, err := source.Load(cmd.Context(), r.input, r.opts.Format)
			if err != nil {
				return err
			}
			v, err := src.Parse(r.opts.MaxDepth)
			if err != nil {
				return err
			}
			s, err := generate.Infer(v, src.Name, r.opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			records := generate.Describe(s)
			if display.ShouldOutputJSON(cmd) {
				if err := display.OutputJSON(out, records); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, generate.FormatDescription(records))
			}

			if !sample {
				return nil
			}
			root, err := instance.New(s, s.Root.Name)
			if err != nil {
				return errors.Wrap(err, "failed to build sample")
			}
			value, err := root.ToValue()
			if err != nil {
				return errors.Wrap(err, "failed to serialize sample")
			}
			fmt.Fprintf(out, "\n# %s()\n%s", s.Root.Name, value.Indent())
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output records as JSON")
	cmd.Flags().BoolVar(&sample, "sample", false, "Also print the root record built from its defaults")
	return cmd
}
