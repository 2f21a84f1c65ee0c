// Group commands for the trove CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/types"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage project and label groups",
}

var (
	groupType      string
	groupAddName   string
	groupAddColor  string
	groupAddParent string
)

var groupAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new group",
	Long: `Add creates a group under a parent group, or at the root of the
project or label tree when no parent is given.

Example:
  trove group add --type project --name "Clients"
  trove group add --type label --name "Contexts" --parent 0191...`,
	RunE: runGroupAdd,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show a group tree",
	RunE:  runGroupList,
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group and its subtree",
	Long: `Delete cascade-deletes a group with every nested group under it.
Projects and labels referenced by the subtree keep existing; they only
lose their grouping. The tree root cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroupDelete,
}

func init() {
	groupCmd.PersistentFlags().StringVar(&groupType, "type", "project", "group tree: project or label")

	groupAddCmd.Flags().StringVar(&groupAddName, "name", "", "group name (required)")
	groupAddCmd.Flags().StringVar(&groupAddColor, "color", "", "display color")
	groupAddCmd.Flags().StringVar(&groupAddParent, "parent", "", "parent group id (default: tree root)")
	_ = groupAddCmd.MarkFlagRequired("name")

	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupDeleteCmd)
}

func parseGroupType() (types.GroupType, error) {
	typ := types.GroupType(groupType)
	if !typ.Valid() {
		return "", fmt.Errorf("group type %q: want project or label", groupType)
	}
	return typ, nil
}

func runGroupAdd(cmd *cobra.Command, args []string) error {
	typ, err := parseGroupType()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var created types.Group
	_, err = s.WithTransaction(func(doc *types.Document) error {
		g, err := store.AddGroup(doc, typ, groupAddParent, groupAddName, groupAddColor)
		if err != nil {
			return err
		}
		created = *g
		return nil
	})
	if err != nil {
		return fmt.Errorf("add group: %w", err)
	}

	if flagJSON {
		return printJSON(created)
	}
	fmt.Println("Created group:", created.GroupID)
	return nil
}

func runGroupList(cmd *cobra.Command, args []string) error {
	typ, err := parseGroupType()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.ReadDocument()
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	root := &doc.ProjectGroups
	if typ == types.GroupTypeLabel {
		root = &doc.LabelGroups
	}

	if flagJSON {
		return printJSON(root)
	}
	printGroupTree(root, 0)
	return nil
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	typ, err := parseGroupType()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteGroup(doc, typ, args[0])
	})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	fmt.Println("Deleted group:", args[0])
	return nil
}

// printGroupTree renders a group tree with two-space indentation per
// level. Leaves print their raw ids.
func printGroupTree(g *types.Group, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%s)\n", indent, g.Name, shortID(g.GroupID))
	for _, item := range g.Items {
		if item.IsLeaf() {
			fmt.Printf("%s  - %s\n", indent, shortID(item.LeafID))
			continue
		}
		printGroupTree(item.Group, depth+1)
	}
}
