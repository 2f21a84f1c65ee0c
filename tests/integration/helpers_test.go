// Package integration provides shared helpers for store integration tests.
package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/types"
)

// newOpenStore opens a store in an isolated temp directory. Each test gets
// its own data directory; the store is closed on cleanup.
func newOpenStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

// addProject creates a project through a transaction and returns it.
func addProject(t *testing.T, s *store.Store, name string) types.Project {
	t.Helper()
	var created types.Project
	_, err := s.WithTransaction(func(doc *types.Document) error {
		p, err := store.AddProject(doc, name, "")
		if err != nil {
			return err
		}
		created = *p
		return nil
	})
	require.NoError(t, err)
	return created
}

// addTask creates a task through a transaction and returns its id.
func addTask(t *testing.T, s *store.Store, task types.Task, sectionID string) string {
	t.Helper()
	_, err := s.WithTransaction(func(doc *types.Document) error {
		return store.AddTask(doc, &task, sectionID, time.Now().UTC())
	})
	require.NoError(t, err)
	return task.TaskID
}

// datePtr builds a UTC midnight timestamp for YYYY-MM-DD style fixtures.
func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
