package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
	"github.com/teranos/shapegen/version"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Check that the generated artifact is up to date",
		Long: `Regenerate in memory and compare with the artifact on disk, ignoring the
header line that records the generator version.

Exit codes:
  0 - Artifact is up to date
  1 - Artifact is missing, out of date (diff shown) or the check failed

Examples:
  shapegen check                        # compare generated_class.py
  shapegen check config.yaml -l go -o models/config.go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, f, args)
		},
	}
	f.register(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, g *globalFlags, f *genFlags, args []string) error {
	r, err := f.resolve(g, args)
	if err != nil {
		return err
	}

	res, err := generate.Run(cmd.Context(), r.input, r.opts)
	if err != nil {
		return err
	}

	report, err := generate.Check(res, r.cfg.Output.Path, version.Version)
	if report == nil {
		return err
	}

	status := cmd.ErrOrStderr()
	if report.NewerGenerator {
		pterm.Warning.WithWriter(status).Printfln("%s was generated by shapegen %s, newer than this binary (%s)",
			report.Path, report.ExistingVersion, version.Version)
	}

	if err == nil {
		pterm.Success.WithWriter(status).Printfln("%s is up to date", report.Path)
		return nil
	}

	if errors.IsOutOfDate(err) && report.Diff != "" {
		fmt.Fprint(cmd.OutOrStdout(), report.Diff)
	}
	return err
}
