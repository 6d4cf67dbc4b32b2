package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chemdeck/chemdeck/pkg/dataset"
)

// datasetsCommand creates the datasets command for inspecting and editing
// the local record store.
func (c *CLI) datasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Inspect and edit the local datasets",
	}

	cmd.AddCommand(c.datasetsListCommand())
	cmd.AddCommand(c.datasetsShowCommand())
	cmd.AddCommand(c.datasetsAddCommand())
	cmd.AddCommand(c.datasetsRemoveCommand())
	cmd.AddCommand(c.datasetsResetCommand())

	return cmd
}

// datasetsListCommand creates the "datasets list" subcommand.
func (c *CLI) datasetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all dataset categories with entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			rows := [][]string{}
			for _, category := range dataset.Categories() {
				entities, err := store.LoadAll(cmd.Context(), category)
				if err != nil {
					return err
				}
				status := "default"
				if store.Modified(category) {
					status = "edited"
				}
				rows = append(rows, []string{category, strconv.Itoa(len(entities)), status})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Category", "Entities", "Status").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 1 {
						return StyleNumber
					}
					return StyleValue
				})
			fmt.Println(t.Render())
			return nil
		},
	}
}

// datasetsShowCommand creates the "datasets show" subcommand.
func (c *CLI) datasetsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <category>",
		Short: "Print the entities of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			entities, err := store.LoadAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entities)
			}

			for _, e := range entities {
				printKeyValue("name", e.Name())
			}
			printDetail("%d entities", len(entities))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print full records as JSON")
	return cmd
}

// datasetsAddCommand creates the "datasets add" subcommand.
func (c *CLI) datasetsAddCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "add <category> [record-json]",
		Short: "Add a record to a category",
		Long: `Add a record to a category.

The record is given either inline as a JSON object or via --file. Field names
follow the dataset schema, e.g. for molecules:

  chemdeck datasets add molecules '{"Name":"Ozone","Formula":"O3","MolecularMass_amu":47.997,"BondType":"Covalent","Geometry":"Bent","Polarity":"Polar"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			switch {
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read record file: %w", err)
				}
				raw = data
			case len(args) == 2:
				raw = []byte(args[1])
			default:
				return fmt.Errorf("provide a record as JSON argument or via --file")
			}

			var fields map[string]any
			if err := json.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("parse record: %w", err)
			}

			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			added, err := store.Add(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}

			printSuccess("Added %s to %s", added.Name(), args[0])
			printNextStep("Render", "chemdeck render "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "read the record from a JSON file")
	return cmd
}

// datasetsRemoveCommand creates the "datasets remove" subcommand.
func (c *CLI) datasetsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category> <name>",
		Short: "Remove a record from a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			if err := store.Remove(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Removed %s from %s", args[1], args[0])
			return nil
		},
	}
}

// datasetsResetCommand creates the "datasets reset" subcommand.
func (c *CLI) datasetsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [category]",
		Short: "Restore a category (or everything) to the shipped defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			if len(args) == 0 {
				for _, category := range dataset.Categories() {
					if err := store.Reset(cmd.Context(), category); err != nil {
						return err
					}
				}
				printSuccess("Reset all categories to defaults")
				return nil
			}
			if err := store.Reset(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Reset %s to defaults", args[0])
			return nil
		},
	}
}
