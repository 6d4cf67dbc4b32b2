package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command, an interactive terminal card
// browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse datasets and layout modes interactively",
		Long: `Browse datasets and layout modes interactively.

The browser paints the active layout in the terminal. Move the cursor over a
card to see its fields, cycle through categories with 'c' and layout modes
with 'm', and pan/zoom with the arrow keys and +/-.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			model := NewBrowseModel(store, c.Logger)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
}
