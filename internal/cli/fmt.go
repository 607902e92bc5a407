package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowpad/flowpad/pkg/mermaid"
)

// newFmtCmd creates the fmt command. It rewrites diagram text in canonical
// form: a "graph TD" header, four-space indentation, node declarations in
// first-occurrence order, then edges.
func newFmtCmd() *cobra.Command {
	var (
		write bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Reformat diagram text to canonical form",
		Long: `Reformat flowchart text by parsing it and serializing the result.

Unparseable lines are dropped, duplicate node declarations collapse to
the last one seen, and arrow variants normalize to "-->". With no files,
reads stdin and writes the canonical form to stdout.

Examples:
  flowpad fmt diagram.mmd           # print canonical form
  flowpad fmt -w diagram.mmd        # rewrite in place
  flowpad fmt -l *.mmd              # list files that would change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if write || list {
					return fmt.Errorf("-w and -l require file arguments")
				}
				text, err := readInput("")
				if err != nil {
					return err
				}
				fmt.Println(canonical(text))
				return nil
			}

			changed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				formatted := canonical(string(data)) + "\n"
				if formatted == string(data) {
					continue
				}
				changed++

				switch {
				case list:
					fmt.Println(path)
				case write:
					if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
						return fmt.Errorf("write %s: %w", path, err)
					}
				default:
					fmt.Print(formatted)
				}
			}

			if write && changed > 0 {
				printSuccess("Formatted %d file(s)", changed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")

	return cmd
}

// canonical round-trips text through the parser and serializer.
func canonical(text string) string {
	return mermaid.SerializeGraph(mermaid.Parse(text))
}
