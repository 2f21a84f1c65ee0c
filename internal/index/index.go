// Package index maintains a SQLite query index over the committed
// document.
//
// The document file is the source of truth; the index is a disposable
// query engine rebuilt from it. The database file is recreated on every
// Open and the whole index is rewritten after each committed transaction,
// so it can always be deleted without losing data.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/trove/pkg/types"
)

// Schema DDL for the index tables.
const schemaSQL = `CREATE TABLE tasks (
    task_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    completed INTEGER NOT NULL,
    completed_at TEXT,
    due_date TEXT,
    recurring TEXT,
    project_id TEXT,
    section_id TEXT,
    section_rank INTEGER,
    priority INTEGER NOT NULL
);

CREATE TABLE task_labels (
    task_id TEXT NOT NULL,
    label_id TEXT NOT NULL,
    PRIMARY KEY (task_id, label_id)
);

CREATE TABLE projects (
    project_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT
);

CREATE TABLE labels (
    label_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    color TEXT
);

CREATE INDEX idx_tasks_project ON tasks(project_id);
CREATE INDEX idx_tasks_due ON tasks(due_date);
`

// dbFileName is the index database file within the data directory.
const dbFileName = "index.db"

// Index is a rebuildable SQLite view of the document.
type Index struct {
	db *sql.DB
}

// Open creates a fresh index database in the data directory. Any existing
// database file is removed first; the index never carries state across
// opens.
func Open(dataDir string) (*Index, error) {
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the database. Idempotent.
func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// Rebuild replaces the whole index with the given document's state in one
// transaction. Section membership and rank are derived from the section
// item lists, the ordering ground truth.
func (ix *Index) Rebuild(doc *types.Document) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "task_labels", "projects", "labels"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// section/rank lookup from the ordering ground truth.
	type placement struct {
		sectionID string
		rank      int
	}
	placements := make(map[string]placement)
	for _, p := range doc.Projects {
		for _, s := range p.Sections {
			for rank, taskID := range s.Items {
				placements[taskID] = placement{sectionID: s.SectionID, rank: rank}
			}
		}
	}

	for _, t := range doc.Tasks {
		var completedAt, dueDate any
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339Nano)
		}
		if t.DueDate != nil {
			dueDate = t.DueDate.Format(time.RFC3339Nano)
		}
		var sectionID, sectionRank any
		if pl, ok := placements[t.TaskID]; ok {
			sectionID = pl.sectionID
			sectionRank = pl.rank
		}
		_, err := tx.Exec(
			`INSERT INTO tasks (task_id, title, completed, completed_at, due_date,
			    recurring, project_id, section_id, section_rank, priority)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.TaskID, t.Title, boolToInt(t.Completed), completedAt, dueDate,
			nullable(t.Recurring), nullable(t.ProjectID), sectionID, sectionRank, t.Priority,
		)
		if err != nil {
			return fmt.Errorf("index task %s: %w", t.TaskID, err)
		}
		for _, labelID := range t.Labels {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)`,
				t.TaskID, labelID,
			); err != nil {
				return fmt.Errorf("index task label %s/%s: %w", t.TaskID, labelID, err)
			}
		}
	}

	for _, p := range doc.Projects {
		if _, err := tx.Exec(
			`INSERT INTO projects (project_id, name, color) VALUES (?, ?, ?)`,
			p.ProjectID, p.Name, nullable(p.Color),
		); err != nil {
			return fmt.Errorf("index project %s: %w", p.ProjectID, err)
		}
	}
	for _, l := range doc.Labels {
		if _, err := tx.Exec(
			`INSERT INTO labels (label_id, name, slug, color) VALUES (?, ?, ?, ?)`,
			l.LabelID, l.Name, l.Slug, nullable(l.Color),
		); err != nil {
			return fmt.Errorf("index label %s: %w", l.LabelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// TaskFilter selects tasks from the index. Zero-valued fields match
// everything.
type TaskFilter struct {
	ProjectID string
	SectionID string
	LabelID   string
	Completed *bool
	DueBefore *time.Time
}

// TaskRow is one task result from the index.
type TaskRow struct {
	TaskID    string
	Title     string
	Completed bool
	DueDate   *time.Time
	ProjectID string
	SectionID string
	Priority  int
}

// QueryTasks returns tasks matching the filter, ordered by section rank
// within a section query and by due date otherwise.
func (ix *Index) QueryTasks(filter TaskFilter) ([]TaskRow, error) {
	query := `SELECT t.task_id, t.title, t.completed, t.due_date,
	                 COALESCE(t.project_id, ''), COALESCE(t.section_id, ''), t.priority
	          FROM tasks t`
	var conds []string
	var args []any

	if filter.LabelID != "" {
		query += ` JOIN task_labels tl ON tl.task_id = t.task_id`
		conds = append(conds, "tl.label_id = ?")
		args = append(args, filter.LabelID)
	}
	if filter.ProjectID != "" {
		conds = append(conds, "t.project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.SectionID != "" {
		conds = append(conds, "t.section_id = ?")
		args = append(args, filter.SectionID)
	}
	if filter.Completed != nil {
		conds = append(conds, "t.completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.DueBefore != nil {
		conds = append(conds, "t.due_date IS NOT NULL AND t.due_date < ?")
		args = append(args, filter.DueBefore.Format(time.RFC3339Nano))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.SectionID != "" {
		query += " ORDER BY t.section_rank"
	} else {
		query += " ORDER BY t.due_date IS NULL, t.due_date, t.task_id"
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var result []TaskRow
	for rows.Next() {
		var r TaskRow
		var completed int
		var due sql.NullString
		if err := rows.Scan(&r.TaskID, &r.Title, &completed, &due,
			&r.ProjectID, &r.SectionID, &r.Priority); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		r.Completed = completed != 0
		if due.Valid {
			t, err := time.Parse(time.RFC3339Nano, due.String)
			if err != nil {
				return nil, fmt.Errorf("parse due date %q: %w", due.String, err)
			}
			r.DueDate = &t
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
