// Project commands for the trove CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var (
	projectAddName  string
	projectAddColor string
)

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new project",
	Long: `Add creates a project with one default section and registers it
at the project group root.

Example:
  trove project add --name "Website redesign" --color "#ff6600"`,
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var (
	sectionAddProject string
	sectionAddName    string
)

var sectionAddCmd = &cobra.Command{
	Use:   "add-section",
	Short: "Add a section to a project",
	RunE:  runSectionAdd,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project",
	Long: `Delete removes a project. Its tasks survive without a project;
its entry is removed from the project group tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectDelete,
}

func init() {
	projectAddCmd.Flags().StringVar(&projectAddName, "name", "", "project name (required)")
	projectAddCmd.Flags().StringVar(&projectAddColor, "color", "", "display color")
	_ = projectAddCmd.MarkFlagRequired("name")

	sectionAddCmd.Flags().StringVar(&sectionAddProject, "project", "", "project id (required)")
	sectionAddCmd.Flags().StringVar(&sectionAddName, "name", "", "section name (required)")
	_ = sectionAddCmd.MarkFlagRequired("project")
	_ = sectionAddCmd.MarkFlagRequired("name")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(sectionAddCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var created types.Project
	_, err = s.WithTransaction(func(doc *types.Document) error {
		p, err := store.AddProject(doc, projectAddName, projectAddColor)
		if err != nil {
			return err
		}
		created = *p
		return nil
	})
	if err != nil {
		return fmt.Errorf("add project: %w", err)
	}

	if flagJSON {
		return printJSON(created)
	}
	fmt.Println("Created project:", created.ProjectID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
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
		return printJSON(doc.Projects)
	}
	if len(doc.Projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	table := make([][]string, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		table = append(table, []string{
			shortID(p.ProjectID),
			truncate(p.Name, 40),
			fmt.Sprintf("%d", len(p.Sections)),
		})
	}
	printTable("ID\tNAME\tSECTIONS", table)
	fmt.Printf("Total: %d project(s)\n", len(doc.Projects))
	return nil
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var created types.Section
	_, err = s.WithTransaction(func(doc *types.Document) error {
		sec, err := store.AddSection(doc, sectionAddProject, sectionAddName)
		if err != nil {
			return err
		}
		created = *sec
		return nil
	})
	if err != nil {
		return fmt.Errorf("add section: %w", err)
	}

	if flagJSON {
		return printJSON(created)
	}
	fmt.Println("Created section:", created.SectionID)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteProject(doc, args[0])
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	fmt.Println("Deleted project:", args[0])
	return nil
}
