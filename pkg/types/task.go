package types

import "time"

// RecurringMode selects the anchor date used when computing the next
// occurrence of a recurring task.
type RecurringMode string

// Recurring modes. DueDate anchors the next occurrence to the completed
// instance's due date; CompletedAt anchors it to the completion timestamp.
const (
	RecurringModeDueDate     RecurringMode = "dueDate"
	RecurringModeCompletedAt RecurringMode = "completedAt"
)

// validRecurringModes is the set of recognized recurring mode values.
var validRecurringModes = map[RecurringMode]bool{
	RecurringModeDueDate:     true,
	RecurringModeCompletedAt: true,
}

// Valid reports whether m is a recognized recurring mode. The empty string
// is valid and treated as RecurringModeDueDate.
func (m RecurringMode) Valid() bool {
	return m == "" || validRecurringModes[m]
}

// Subtask is a checklist entry owned by a task. Subtasks have no identity
// outside their parent task.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task represents a single work item.
//
// Section membership and display order are not stored on the task; both are
// encoded by the owning project's section item lists. Invariant: Completed
// false implies CompletedAt nil.
type Task struct {
	TaskID        string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Completed     bool          `json:"completed"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Recurring     string        `json:"recurring,omitempty"`
	RecurringMode RecurringMode `json:"recurringMode,omitempty"`
	ProjectID     string        `json:"projectId,omitempty"`
	Priority      int           `json:"priority,omitempty"`
	Labels        []string      `json:"labels,omitempty"`
	Subtasks      []Subtask     `json:"subtasks,omitempty"`
	Attachments   []string      `json:"attachments,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// MarkComplete marks the task complete at the given time. Idempotent:
// completing a completed task updates nothing.
func (t *Task) MarkComplete(now time.Time) {
	if t.Completed {
		return
	}
	t.Completed = true
	completedAt := now
	t.CompletedAt = &completedAt
	t.UpdatedAt = now
}

// Reopen clears the completion state. Idempotent.
func (t *Task) Reopen(now time.Time) {
	if !t.Completed {
		return
	}
	t.Completed = false
	t.CompletedAt = nil
	t.UpdatedAt = now
}

// Validate checks task-local invariants: non-empty id and title, a
// recognized recurring mode, and the completion timestamp rule.
func (t *Task) Validate() error {
	if t.TaskID == "" {
		return ErrInvalidID
	}
	if t.Title == "" {
		return ErrInvalidName
	}
	if !t.RecurringMode.Valid() {
		return ErrInvalidRecurrenceRule
	}
	if !t.Completed && t.CompletedAt != nil {
		return ErrValidationFailure
	}
	return nil
}
