package cli

import (
	"github.com/spf13/cobra"

	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/mermaid"
)

// newParseCmd creates the parse command. It reads diagram text, parses it
// into a graph, assigns grid positions, and emits the graph as JSON.
func newParseCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse diagram text into graph JSON",
		Long: `Parse Mermaid-style flowchart text into a node/edge graph.

Parsing is lenient: lines that do not declare a node or an edge are
skipped, so partial or malformed input still yields a graph. Reads from
stdin when no file is given.

Examples:
  flowpad parse diagram.mmd
  cat diagram.mmd | flowpad parse
  flowpad parse diagram.mmd -o diagram.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			var input string
			if len(args) > 0 {
				input = args[0]
			}
			text, err := readInput(input)
			if err != nil {
				return err
			}

			g := mermaid.Parse(text)
			mermaid.AssignPositions(g.Nodes)

			data, err := graph.Marshal(g)
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if err := writeOutput(output, data); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Parsed diagram")
				printFile(output)
				printStats(len(g.Nodes), len(g.Edges), false)
				prog.done("parse complete")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
