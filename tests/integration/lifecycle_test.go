// Integration tests for the full document store lifecycle: bootstrap,
// task and project management, recurring completion, section reordering,
// group cascades, and reopen persistence.
package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trove/internal/index"
	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/ordering"
	"github.com/mesh-intelligence/trove/pkg/types"
)

func TestLifecycle_BootstrapCreatesDocumentWithRoots(t *testing.T) {
	s, dir := newOpenStore(t)

	_, err := os.Stat(filepath.Join(dir, types.DefaultFileName))
	require.NoError(t, err, "document file must exist after open")

	doc, err := s.ReadDocument()
	require.NoError(t, err)
	assert.Equal(t, types.DocumentVersion, doc.Version)
	assert.Equal(t, types.RootProjectGroupID, doc.ProjectGroups.GroupID)
	assert.Equal(t, types.RootLabelGroupID, doc.LabelGroups.GroupID)
	assert.Empty(t, doc.Tasks)
}

func TestLifecycle_TasksSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := store.Open(types.Config{DataDir: dir})
	require.NoError(t, err)

	project := addProject(t, s, "Website")
	taskID := addTask(t, s, types.Task{Title: "Write copy", ProjectID: project.ProjectID}, "")
	require.NoError(t, s.Close())

	s, err = store.Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.ReadDocument()
	require.NoError(t, err)
	require.NotNil(t, doc.Task(taskID))
	require.NotNil(t, doc.Project(project.ProjectID))

	// The project sits as a leaf under the project group root.
	require.Len(t, doc.ProjectGroups.Items, 1)
	assert.Equal(t, project.ProjectID, doc.ProjectGroups.Items[0].LeafID)

	// The task landed in the project's default section.
	assert.Equal(t, []string{taskID}, doc.Projects[0].Sections[0].Items)
}

func TestLifecycle_RecurringCompletionSpawnsNextInstance(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Chores")

	taskID := addTask(t, s, types.Task{
		Title:     "Water plants",
		ProjectID: project.ProjectID,
		Recurring: "RRULE:FREQ=DAILY",
		DueDate:   datePtr(2026, time.August, 24),
	}, "")

	var next *types.Task
	doc, err := s.WithTransaction(func(doc *types.Document) error {
		var expandErr, opErr error
		next, expandErr, opErr = store.CompleteTask(doc, taskID, time.Now().UTC())
		require.NoError(t, expandErr)
		return opErr
	})
	require.NoError(t, err)
	require.NotNil(t, next)

	completed := doc.Task(taskID)
	require.NotNil(t, completed)
	assert.True(t, completed.Completed)

	spawned := doc.Task(next.TaskID)
	require.NotNil(t, spawned)
	assert.False(t, spawned.Completed)
	require.NotNil(t, spawned.DueDate)
	assert.Equal(t, *datePtr(2026, time.August, 25), *spawned.DueDate)

	// The new instance sits right after the completed task in its section.
	assert.Equal(t, []string{taskID, next.TaskID}, doc.Projects[0].Sections[0].Items)
}

func TestLifecycle_ExpansionFailureKeepsCompletion(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Chores")

	// dueDate mode with no due date: completion succeeds, expansion fails.
	taskID := addTask(t, s, types.Task{
		Title:     "Take out trash",
		ProjectID: project.ProjectID,
		Recurring: "RRULE:FREQ=WEEKLY",
	}, "")

	var next *types.Task
	var expandErr error
	doc, err := s.WithTransaction(func(doc *types.Document) error {
		var opErr error
		next, expandErr, opErr = store.CompleteTask(doc, taskID, time.Now().UTC())
		return opErr
	})
	require.NoError(t, err)
	require.ErrorIs(t, expandErr, types.ErrMissingAnchor)
	assert.Nil(t, next)

	assert.True(t, doc.Task(taskID).Completed)
	assert.Len(t, doc.Tasks, 1, "no new instance on expansion failure")
}

func TestLifecycle_ReorderWithinSection(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Sprint")
	sectionID := project.Sections[0].SectionID

	a := addTask(t, s, types.Task{Title: "A", ProjectID: project.ProjectID}, "")
	b := addTask(t, s, types.Task{Title: "B", ProjectID: project.ProjectID}, "")
	c := addTask(t, s, types.Task{Title: "C", ProjectID: project.ProjectID}, "")

	doc, err := s.WithTransaction(func(doc *types.Document) error {
		return store.MoveTasks(doc, project.ProjectID, sectionID, []string{a}, b, ordering.ReorderAfter)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, c}, doc.Projects[0].Sections[0].Items)
}

func TestLifecycle_MoveAcrossSections(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Sprint")

	var doneSection types.Section
	_, err := s.WithTransaction(func(doc *types.Document) error {
		sec, err := store.AddSection(doc, project.ProjectID, "Done")
		if err != nil {
			return err
		}
		doneSection = *sec
		return nil
	})
	require.NoError(t, err)

	a := addTask(t, s, types.Task{Title: "A", ProjectID: project.ProjectID}, "")
	b := addTask(t, s, types.Task{Title: "B", ProjectID: project.ProjectID}, "")

	doc, err := s.WithTransaction(func(doc *types.Document) error {
		return store.MoveTasks(doc, project.ProjectID, doneSection.SectionID, []string{a}, "", ordering.ReorderAfter)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{b}, doc.Projects[0].Sections[0].Items)
	assert.Equal(t, []string{a}, doc.Projects[0].Sections[1].Items)
}

func TestLifecycle_GroupCascadeKeepsEntities(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Client work")

	var outer, inner types.Group
	_, err := s.WithTransaction(func(doc *types.Document) error {
		g, err := store.AddGroup(doc, types.GroupTypeProject, "", "Clients", "")
		if err != nil {
			return err
		}
		outer = *g
		n, err := store.AddGroup(doc, types.GroupTypeProject, g.GroupID, "Active", "")
		if err != nil {
			return err
		}
		inner = *n
		return nil
	})
	require.NoError(t, err)

	doc, err := s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteGroup(doc, types.GroupTypeProject, outer.GroupID)
	})
	require.NoError(t, err)

	// The whole subtree is gone; the project entity survives.
	for _, item := range doc.ProjectGroups.Items {
		if !item.IsLeaf() {
			assert.NotEqual(t, outer.GroupID, item.Group.GroupID)
			assert.NotEqual(t, inner.GroupID, item.Group.GroupID)
		}
	}
	require.NotNil(t, doc.Project(project.ProjectID))
}

func TestLifecycle_RootGroupUndeletable(t *testing.T) {
	s, _ := newOpenStore(t)

	_, err := s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteGroup(doc, types.GroupTypeProject, types.RootProjectGroupID)
	})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestLifecycle_LabelDeleteScrubsTasks(t *testing.T) {
	s, _ := newOpenStore(t)

	var label types.Label
	_, err := s.WithTransaction(func(doc *types.Document) error {
		l, err := store.AddLabel(doc, "Deep Work", "", "")
		if err != nil {
			return err
		}
		label = *l
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "deep-work", label.Slug)

	taskID := addTask(t, s, types.Task{Title: "Focus block", Labels: []string{label.LabelID}}, "")

	doc, err := s.WithTransaction(func(doc *types.Document) error {
		return store.DeleteLabel(doc, label.LabelID)
	})
	require.NoError(t, err)

	assert.Empty(t, doc.Task(taskID).Labels)
	assert.Empty(t, doc.Labels)
	assert.Empty(t, doc.LabelGroups.Items)
}

func TestLifecycle_QueryIndexFollowsCommits(t *testing.T) {
	s, _ := newOpenStore(t)
	project := addProject(t, s, "Inbox")

	open := addTask(t, s, types.Task{Title: "Open", ProjectID: project.ProjectID}, "")
	done := addTask(t, s, types.Task{Title: "Done", ProjectID: project.ProjectID}, "")

	_, err := s.WithTransaction(func(doc *types.Document) error {
		_, _, opErr := store.CompleteTask(doc, done, time.Now().UTC())
		return opErr
	})
	require.NoError(t, err)

	completed := false
	rows, err := s.QueryTasks(index.TaskFilter{ProjectID: project.ProjectID, Completed: &completed})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open, rows[0].TaskID)
}
