// Task commands for the trove CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trove/internal/index"
	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/ordering"
	"github.com/mesh-intelligence/trove/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskAddTitle     string
	taskAddDesc      string
	taskAddProject   string
	taskAddSection   string
	taskAddDue       string
	taskAddRecurring string
	taskAddMode      string
	taskAddPriority  int
	taskAddLabels    []string
)

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new task",
	Long: `Add creates a new task with the given title.

Example:
  trove task add --title "Write report"
  trove task add --title "Standup" --recurring "RRULE:FREQ=WEEKLY;BYDAY=MO,WE" --due 2026-09-01
  trove task add --title "Invoice" --project 0191... --section 0191... --priority 2`,
	RunE: runTaskAdd,
}

var (
	taskListProject   string
	taskListSection   string
	taskListLabel     string
	taskListCompleted bool
	taskListOpen      bool
	taskListDueBefore string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List queries tasks from the store.

Example:
  trove task list
  trove task list --project 0191... --open
  trove task list --due-before 2026-09-01 --json`,
	RunE: runTaskList,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task complete",
	Long: `Complete marks a task complete. A recurring task spawns its next
instance; a failure to expand the next instance is reported but does not
undo the completion.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskComplete,
}

var taskReopenCmd = &cobra.Command{
	Use:   "reopen <task-id>",
	Short: "Reopen a completed task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskReopen,
}

var (
	taskMoveProject string
	taskMoveSection string
	taskMoveAfter   string
	taskMoveBefore  string
)

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id>...",
	Short: "Move tasks within or across sections",
	Long: `Move drops the named tasks into a section, before or after a
target task. Moving within the same section reorders; moving into another
section transfers the tasks.

Example:
  trove task move 0191... --project 0192... --section 0193... --after 0194...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskMove,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddTitle, "title", "", "task title (required)")
	taskAddCmd.Flags().StringVar(&taskAddDesc, "description", "", "task description")
	taskAddCmd.Flags().StringVar(&taskAddProject, "project", "", "project id")
	taskAddCmd.Flags().StringVar(&taskAddSection, "section", "", "section id (default: project's first section)")
	taskAddCmd.Flags().StringVar(&taskAddDue, "due", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskAddRecurring, "recurring", "", "recurrence rule (e.g. RRULE:FREQ=DAILY)")
	taskAddCmd.Flags().StringVar(&taskAddMode, "recurring-mode", "", "recurrence anchor: dueDate or completedAt")
	taskAddCmd.Flags().IntVar(&taskAddPriority, "priority", 0, "priority (higher is more urgent)")
	taskAddCmd.Flags().StringSliceVar(&taskAddLabels, "label", nil, "label id (repeatable)")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskListProject, "project", "", "filter by project id")
	taskListCmd.Flags().StringVar(&taskListSection, "section", "", "filter by section id")
	taskListCmd.Flags().StringVar(&taskListLabel, "label", "", "filter by label id")
	taskListCmd.Flags().BoolVar(&taskListCompleted, "completed", false, "only completed tasks")
	taskListCmd.Flags().BoolVar(&taskListOpen, "open", false, "only open tasks")
	taskListCmd.Flags().StringVar(&taskListDueBefore, "due-before", "", "only tasks due before this date (YYYY-MM-DD)")

	taskMoveCmd.Flags().StringVar(&taskMoveProject, "project", "", "target project id (required)")
	taskMoveCmd.Flags().StringVar(&taskMoveSection, "section", "", "target section id (required)")
	taskMoveCmd.Flags().StringVar(&taskMoveAfter, "after", "", "drop after this task id")
	taskMoveCmd.Flags().StringVar(&taskMoveBefore, "before", "", "drop before this task id")
	_ = taskMoveCmd.MarkFlagRequired("project")
	_ = taskMoveCmd.MarkFlagRequired("section")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskReopenCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task := types.Task{
		Title:         taskAddTitle,
		Description:   taskAddDesc,
		ProjectID:     taskAddProject,
		Recurring:     taskAddRecurring,
		RecurringMode: types.RecurringMode(taskAddMode),
		Priority:      taskAddPriority,
		Labels:        taskAddLabels,
	}
	if taskAddDue != "" {
		due, err := time.Parse("2006-01-02", taskAddDue)
		if err != nil {
			return fmt.Errorf("parse due date: %w", err)
		}
		task.DueDate = &due
	}

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.AddTask(doc, &task, taskAddSection, time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	if flagJSON {
		return printJSON(task)
	}
	fmt.Println("Created task:", task.TaskID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	filter := index.TaskFilter{
		ProjectID: taskListProject,
		SectionID: taskListSection,
		LabelID:   taskListLabel,
	}
	if taskListCompleted {
		v := true
		filter.Completed = &v
	}
	if taskListOpen {
		v := false
		filter.Completed = &v
	}
	if taskListDueBefore != "" {
		cutoff, err := time.Parse("2006-01-02", taskListDueBefore)
		if err != nil {
			return fmt.Errorf("parse due-before date: %w", err)
		}
		filter.DueBefore = &cutoff
	}

	rows, err := s.QueryTasks(filter)
	if err != nil {
		return fmt.Errorf("query tasks: %w", err)
	}

	if flagJSON {
		return printJSON(rows)
	}
	printTaskTable(rows)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var next *types.Task
	var expandErr error
	_, err = s.WithTransaction(func(doc *types.Document) error {
		var opErr error
		next, expandErr, opErr = store.CompleteTask(doc, args[0], time.Now().UTC())
		return opErr
	})
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	fmt.Println("Completed task:", args[0])
	if expandErr != nil {
		// The completion stands even when the next instance could not be
		// created.
		fmt.Fprintln(os.Stderr, "warning: next occurrence not created:", expandErr)
	}
	if next != nil {
		fmt.Println("Next occurrence:", next.TaskID, "due", formatDate(next.DueDate))
	}
	return nil
}

func runTaskReopen(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.ReopenTask(doc, args[0], time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("reopen task: %w", err)
	}

	fmt.Println("Reopened task:", args[0])
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	if (taskMoveAfter == "") == (taskMoveBefore == "") {
		return fmt.Errorf("exactly one of --after or --before is required")
	}
	target, pos := taskMoveAfter, ordering.ReorderAfter
	if taskMoveBefore != "" {
		target, pos = taskMoveBefore, ordering.ReorderBefore
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.MoveTasks(doc, taskMoveProject, taskMoveSection, args, target, pos)
	})
	if err != nil {
		return fmt.Errorf("move tasks: %w", err)
	}

	fmt.Printf("Moved %d task(s)\n", len(args))
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteTask(doc, args[0])
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	fmt.Println("Deleted task:", args[0])
	return nil
}

// printTaskTable prints tasks in a human-readable table format.
func printTaskTable(rows []index.TaskRow) {
	if len(rows) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		state := "open"
		if r.Completed {
			state = "done"
		}
		table = append(table, []string{
			shortID(r.TaskID),
			truncate(r.Title, 40),
			state,
			formatDate(r.DueDate),
			shortID(r.ProjectID),
		})
	}
	printTable("ID\tTITLE\tSTATE\tDUE\tPROJECT", table)
	fmt.Printf("Total: %d task(s)\n", len(rows))
}
