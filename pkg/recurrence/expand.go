package recurrence

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/trove/pkg/types"
)

// ExpandOnCompletion computes the next instance of a recurring task at the
// moment it is completed.
//
// Returns (nil, nil) when the task carries no recurrence rule. The anchor
// date is the completion timestamp under RecurringModeCompletedAt and the
// task's due date otherwise; a dueDate-mode task without a due date is a
// configuration error reported as types.ErrMissingAnchor. An unparseable
// rule reports types.ErrInvalidRecurrenceRule.
//
// The returned task is a fresh instance: new id, due date set to the first
// occurrence strictly after the anchor, completion state cleared, subtasks
// reset to incomplete, and every template field (title, description,
// priority, labels, project, attachments, the rule itself) copied from the
// source. Recurrence preserves the template, not the completed instance's
// state.
//
// Nothing is inserted or persisted here; the caller appends the instance
// to the task list and splices it into a section. Errors from this
// function must never abort the completion that triggered it.
func ExpandOnCompletion(task *types.Task, completedAt time.Time) (*types.Task, error) {
	if task.Recurring == "" {
		return nil, nil
	}

	var anchor time.Time
	if task.RecurringMode == types.RecurringModeCompletedAt {
		anchor = completedAt
	} else {
		if task.DueDate == nil {
			return nil, fmt.Errorf("task %s: %w", task.TaskID, types.ErrMissingAnchor)
		}
		anchor = *task.DueDate
	}

	rule, err := Parse(task.Recurring)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.TaskID, err)
	}
	due := rule.NextAfter(anchor)

	next := &types.Task{
		TaskID:        types.NewID(),
		Title:         task.Title,
		Description:   task.Description,
		Completed:     false,
		CompletedAt:   nil,
		DueDate:       &due,
		Recurring:     task.Recurring,
		RecurringMode: task.RecurringMode,
		ProjectID:     task.ProjectID,
		Priority:      task.Priority,
		CreatedAt:     completedAt,
		UpdatedAt:     completedAt,
	}
	if len(task.Labels) > 0 {
		next.Labels = append([]string(nil), task.Labels...)
	}
	if len(task.Attachments) > 0 {
		next.Attachments = append([]string(nil), task.Attachments...)
	}
	if len(task.Subtasks) > 0 {
		next.Subtasks = make([]types.Subtask, len(task.Subtasks))
		for i, st := range task.Subtasks {
			next.Subtasks[i] = types.Subtask{
				ID:        types.NewID(),
				Title:     st.Title,
				Completed: false,
			}
		}
	}
	return next, nil
}
