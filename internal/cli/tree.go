package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/njfio/issuegraph/pkg/hierarchy"
)

// treeCommand creates the tree command for browsing the hierarchy in the
// terminal. By default it opens an interactive browser; --plain prints the
// indented tree and exits.
func (c *CLI) treeCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tree [graph.json]",
		Short: "Browse the issue hierarchy tree in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := hierarchy.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}

			if plain {
				for _, line := range hierarchy.RenderTreeLines(doc) {
					fmt.Println(line)
				}
				return nil
			}

			model := NewTreeModel(doc)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the tree without the interactive browser")

	return cmd
}
