package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trove/pkg/types"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestDocument() *types.Document {
	doc := types.NewDocument()
	due1 := ts(2024, 3, 1)
	due2 := ts(2024, 3, 5)
	completedAt := ts(2024, 2, 28)

	doc.Projects = []types.Project{
		{
			ProjectID: "proj-1",
			Name:      "Home",
			Sections: []types.Section{
				{SectionID: "sec-1", Name: "Default", Items: []string{"task-2", "task-1"}},
			},
		},
	}
	doc.Labels = []types.Label{
		{LabelID: "lbl-1", Name: "Urgent", Slug: "urgent"},
	}
	doc.Tasks = []types.Task{
		{TaskID: "task-1", Title: "First", ProjectID: "proj-1", DueDate: &due1, Labels: []string{"lbl-1"}},
		{TaskID: "task-2", Title: "Second", ProjectID: "proj-1", DueDate: &due2},
		{TaskID: "task-3", Title: "Done elsewhere", Completed: true, CompletedAt: &completedAt},
	}
	return doc
}

func TestRebuildAndQueryAll(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	rows, err := ix.QueryTasks(TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestQueryByProject(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	rows, err := ix.QueryTasks(TaskFilter{ProjectID: "proj-1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "proj-1", r.ProjectID)
	}
}

func TestQueryBySectionUsesItemOrder(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	rows, err := ix.QueryTasks(TaskFilter{SectionID: "sec-1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Section items are [task-2, task-1]; rank order must follow.
	assert.Equal(t, "task-2", rows[0].TaskID)
	assert.Equal(t, "task-1", rows[1].TaskID)
}

func TestQueryByCompletion(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	completed := true
	rows, err := ix.QueryTasks(TaskFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "task-3", rows[0].TaskID)
}

func TestQueryByLabel(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	rows, err := ix.QueryTasks(TaskFilter{LabelID: "lbl-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "task-1", rows[0].TaskID)
}

func TestQueryDueBefore(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	cutoff := ts(2024, 3, 3)
	rows, err := ix.QueryTasks(TaskFilter{DueBefore: &cutoff})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "task-1", rows[0].TaskID)
	require.NotNil(t, rows[0].DueDate)
	assert.True(t, rows[0].DueDate.Equal(ts(2024, 3, 1)))
}

func TestRebuildReplacesPreviousState(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Rebuild(newTestDocument()))

	empty := types.NewDocument()
	require.NoError(t, ix.Rebuild(empty))

	rows, err := ix.QueryTasks(TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
