// Label commands for the trove CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/types"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage labels",
}

var (
	labelAddName  string
	labelAddSlug  string
	labelAddColor string
)

var labelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new label",
	Long: `Add creates a label and registers it at the label group root.
The slug is derived from the name when not given.

Example:
  trove label add --name "Deep Work" --color "#3366ff"`,
	RunE: runLabelAdd,
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels",
	RunE:  runLabelList,
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <label-id>",
	Short: "Delete a label",
	Long: `Delete removes a label, drops it from every task, and removes
its entry from the label group tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runLabelDelete,
}

func init() {
	labelAddCmd.Flags().StringVar(&labelAddName, "name", "", "label name (required)")
	labelAddCmd.Flags().StringVar(&labelAddSlug, "slug", "", "url-safe slug (default: derived from name)")
	labelAddCmd.Flags().StringVar(&labelAddColor, "color", "", "display color")
	_ = labelAddCmd.MarkFlagRequired("name")

	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelListCmd)
	labelCmd.AddCommand(labelDeleteCmd)
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var created types.Label
	_, err = s.WithTransaction(func(doc *types.Document) error {
		l, err := store.AddLabel(doc, labelAddName, labelAddSlug, labelAddColor)
		if err != nil {
			return err
		}
		created = *l
		return nil
	})
	if err != nil {
		return fmt.Errorf("add label: %w", err)
	}

	if flagJSON {
		return printJSON(created)
	}
	fmt.Println("Created label:", created.LabelID)
	return nil
}

func runLabelList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.ReadDocument()
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if flagJSON {
		return printJSON(doc.Labels)
	}
	if len(doc.Labels) == 0 {
		fmt.Println("No labels found.")
		return nil
	}

	table := make([][]string, 0, len(doc.Labels))
	for _, l := range doc.Labels {
		table = append(table, []string{
			shortID(l.LabelID),
			truncate(l.Name, 40),
			l.Slug,
		})
	}
	printTable("ID\tNAME\tSLUG", table)
	fmt.Printf("Total: %d label(s)\n", len(doc.Labels))
	return nil
}

func runLabelDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteLabel(doc, args[0])
	})
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}

	fmt.Println("Deleted label:", args[0])
	return nil
}
