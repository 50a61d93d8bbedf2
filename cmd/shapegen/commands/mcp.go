package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/mcpserver"
	"github.com/teranos/shapegen/version"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve generate_types and describe_schema over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  generate_types   - document text in, generated source out
  describe_schema  - document text in, inferred records as JSON out

Configuration and flags supply the defaults; tool arguments override them.
Logs go to stderr so they never corrupt the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.resolve(g, nil)
			if err != nil {
				return err
			}
			return mcpserver.New(r.opts, version.Version).Serve()
		},
	}
	f.register(cmd)
	return cmd
}
