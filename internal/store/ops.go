// Document mutation operations. Each function mutates a document in place
// and is meant to run inside a WithTransaction closure; none of them
// persist anything themselves.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/trove/pkg/grouptree"
	"github.com/mesh-intelligence/trove/pkg/ordering"
	"github.com/mesh-intelligence/trove/pkg/recurrence"
	"github.com/mesh-intelligence/trove/pkg/types"
)

// AddTask adds a task to the document. An empty TaskID gets a fresh id. A
// recurrence rule is validated here, at creation time, so a bad rule fails
// the add instead of a later expansion. When the task belongs to a project
// it is appended to the named section, or to the project's first section
// when sectionID is empty.
func AddTask(doc *types.Document, task *types.Task, sectionID string, now time.Time) error {
	if task.TaskID == "" {
		task.TaskID = types.NewID()
	}
	if task.Title == "" {
		return types.ErrInvalidName
	}
	if task.Recurring != "" {
		if _, err := recurrence.Parse(task.Recurring); err != nil {
			return err
		}
	}
	if !task.RecurringMode.Valid() {
		return fmt.Errorf("recurring mode %q: %w", task.RecurringMode, types.ErrInvalidRecurrenceRule)
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	var section *types.Section
	if task.ProjectID != "" {
		project := doc.Project(task.ProjectID)
		if project == nil {
			return fmt.Errorf("project %s: %w", task.ProjectID, types.ErrNotFound)
		}
		if sectionID != "" {
			section = project.Section(sectionID)
			if section == nil {
				return fmt.Errorf("section %s: %w", sectionID, types.ErrNotFound)
			}
		} else if len(project.Sections) > 0 {
			// Default container: the project's first section.
			section = &project.Sections[0]
		}
	} else if sectionID != "" {
		return fmt.Errorf("section %s without a project: %w", sectionID, types.ErrNotFound)
	}

	doc.Tasks = append(doc.Tasks, *task)
	if section != nil {
		section.Items = append(section.Items, task.TaskID)
	}
	return nil
}

// CompleteTask marks a task complete and, when the task recurs, expands
// the next instance and splices it into the completed task's section
// immediately after it.
//
// A recurrence failure (missing anchor, bad rule) does not undo the
// completion: the task stays completed, no instance is created, and the
// failure is reported through expandErr for the caller to log. Only err
// aborts the surrounding transaction.
func CompleteTask(doc *types.Document, taskID string, now time.Time) (next *types.Task, expandErr error, err error) {
	task := doc.Task(taskID)
	if task == nil {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, types.ErrNotFound)
	}
	task.MarkComplete(now)

	next, expandErr = recurrence.ExpandOnCompletion(task, now)
	if expandErr != nil || next == nil {
		return nil, expandErr, nil
	}

	// Locate the parent's section before appending: the append may grow
	// doc.Tasks and move the task value.
	var section *types.Section
	if project := doc.Project(task.ProjectID); project != nil {
		section = project.SectionOf(taskID)
	}

	doc.Tasks = append(doc.Tasks, *next)
	if section != nil {
		section.Items = ordering.InsertAfter(section.Items, next.TaskID, taskID)
	}
	return next, nil, nil
}

// ReopenTask clears a task's completion state.
func ReopenTask(doc *types.Document, taskID string, now time.Time) error {
	task := doc.Task(taskID)
	if task == nil {
		return fmt.Errorf("task %s: %w", taskID, types.ErrNotFound)
	}
	task.Reopen(now)
	return nil
}

// DeleteTask removes a task and scrubs it from every section list, so no
// orphaned references survive the delete.
func DeleteTask(doc *types.Document, taskID string) error {
	found := false
	kept := doc.Tasks[:0]
	for _, t := range doc.Tasks {
		if t.TaskID == taskID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("task %s: %w", taskID, types.ErrNotFound)
	}
	doc.Tasks = kept

	for i := range doc.Projects {
		for j := range doc.Projects[i].Sections {
			s := &doc.Projects[i].Sections[j]
			s.Items = ordering.Remove(s.Items, taskID)
		}
	}
	return nil
}

// MoveTasks moves draggedIDs into the named section, dropping the block
// before or after targetTaskID. It handles both same-section reorders and
// cross-section moves: the dragged ids are scrubbed from every section in
// the document (the source side of a cross-section move), each task's
// ProjectID is updated to the target project, and the target section's
// list is recomputed by the ordering engine.
//
// The engine's preconditions are enforced here: duplicate dragged ids or a
// dragged id equal to targetTaskID return ErrInvalidID.
func MoveTasks(doc *types.Document, projectID, sectionID string, draggedIDs []string, targetTaskID string, pos ordering.Position) error {
	if len(draggedIDs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(draggedIDs))
	for _, id := range draggedIDs {
		if seen[id] {
			return fmt.Errorf("duplicate dragged id %s: %w", id, types.ErrInvalidID)
		}
		seen[id] = true
		if id == targetTaskID {
			return fmt.Errorf("dragged id %s is the target: %w", id, types.ErrInvalidID)
		}
		if doc.Task(id) == nil {
			return fmt.Errorf("task %s: %w", id, types.ErrNotFound)
		}
	}

	project := doc.Project(projectID)
	if project == nil {
		return fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	section := project.Section(sectionID)
	if section == nil {
		return fmt.Errorf("section %s: %w", sectionID, types.ErrNotFound)
	}

	// Source side: the dragged tasks leave whatever section held them.
	for i := range doc.Projects {
		for j := range doc.Projects[i].Sections {
			s := &doc.Projects[i].Sections[j]
			if s == section {
				continue
			}
			s.Items = ordering.Remove(s.Items, draggedIDs...)
		}
	}
	for _, id := range draggedIDs {
		doc.Task(id).ProjectID = projectID
	}

	section.Items = ordering.ComputeReorderedItems(section.Items, draggedIDs, targetTaskID, pos)
	return nil
}

// AddProject adds a project with one default section and registers it as
// an ungrouped leaf at the project forest root.
func AddProject(doc *types.Document, name, color string) (*types.Project, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}
	project := types.Project{
		ProjectID: types.NewID(),
		Name:      name,
		Color:     color,
		Sections: []types.Section{
			{SectionID: types.NewID(), Name: "Default", Items: []string{}},
		},
	}
	doc.Projects = append(doc.Projects, project)
	grouptree.InsertLeaf(&doc.ProjectGroups, project.ProjectID)
	return &doc.Projects[len(doc.Projects)-1], nil
}

// AddSection appends a named section to a project.
func AddSection(doc *types.Document, projectID, name string) (*types.Section, error) {
	project := doc.Project(projectID)
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	project.Sections = append(project.Sections, types.Section{
		SectionID: types.NewID(),
		Name:      name,
		Items:     []string{},
	})
	return &project.Sections[len(project.Sections)-1], nil
}

// DeleteProject removes a project. Its tasks survive but lose project and
// section membership; its leaf is scrubbed from the project forest.
func DeleteProject(doc *types.Document, projectID string) error {
	found := false
	kept := doc.Projects[:0]
	for _, p := range doc.Projects {
		if p.ProjectID == projectID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	doc.Projects = kept

	for i := range doc.Tasks {
		if doc.Tasks[i].ProjectID == projectID {
			doc.Tasks[i].ProjectID = ""
		}
	}
	grouptree.RemoveLeaf(&doc.ProjectGroups, projectID)
	return nil
}

// AddLabel adds a label and registers it as an ungrouped leaf at the label
// forest root. The slug is derived from the name when empty.
func AddLabel(doc *types.Document, name, slug, color string) (*types.Label, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}
	if slug == "" {
		slug = Slugify(name)
	}
	label := types.Label{
		LabelID: types.NewID(),
		Name:    name,
		Slug:    slug,
		Color:   color,
	}
	doc.Labels = append(doc.Labels, label)
	grouptree.InsertLeaf(&doc.LabelGroups, label.LabelID)
	return &doc.Labels[len(doc.Labels)-1], nil
}

// DeleteLabel removes a label, scrubs its leaf from the label forest, and
// drops it from every task's label list.
func DeleteLabel(doc *types.Document, labelID string) error {
	found := false
	kept := doc.Labels[:0]
	for _, l := range doc.Labels {
		if l.LabelID == labelID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return fmt.Errorf("label %s: %w", labelID, types.ErrNotFound)
	}
	doc.Labels = kept

	grouptree.RemoveLeaf(&doc.LabelGroups, labelID)
	for i := range doc.Tasks {
		doc.Tasks[i].Labels = ordering.Remove(doc.Tasks[i].Labels, labelID)
	}
	return nil
}

// forest returns the document's group tree for the given type.
func forest(doc *types.Document, typ types.GroupType) (*types.Group, error) {
	switch typ {
	case types.GroupTypeProject:
		return &doc.ProjectGroups, nil
	case types.GroupTypeLabel:
		return &doc.LabelGroups, nil
	default:
		return nil, fmt.Errorf("group type %q: %w", typ, types.ErrTypeMismatch)
	}
}

// AddGroup creates a group under the named parent. An empty parentID means
// the forest root. Returns ErrNotFound when the parent id is not in the
// tree.
func AddGroup(doc *types.Document, typ types.GroupType, parentID, name, color string) (*types.Group, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}
	root, err := forest(doc, typ)
	if err != nil {
		return nil, err
	}

	parent := root
	if parentID != "" {
		parent = grouptree.FindByID(root, parentID)
		if parent == nil {
			return nil, fmt.Errorf("group %s: %w", parentID, types.ErrNotFound)
		}
	}

	group := &types.Group{
		GroupID: types.NewID(),
		Name:    name,
		Slug:    Slugify(name),
		Color:   color,
		Type:    typ,
		Items:   []types.GroupItem{},
	}
	if err := grouptree.Insert(parent, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup cascade-deletes a group and its whole subtree. The forest
// root is undeletable; deleting it, or a missing id, returns ErrNotFound.
// Leaves under the subtree lose their grouping but keep their entities.
func DeleteGroup(doc *types.Document, typ types.GroupType, groupID string) error {
	root, err := forest(doc, typ)
	if err != nil {
		return err
	}
	if !grouptree.CascadeDelete(root, groupID) {
		return fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}
	return nil
}

// ReplaceRootItems replaces a forest root's items wholesale, the top-level
// drag-to-reorder operation.
func ReplaceRootItems(doc *types.Document, typ types.GroupType, items []types.GroupItem) error {
	root, err := forest(doc, typ)
	if err != nil {
		return err
	}
	return grouptree.BulkReplaceRootItems(root, items)
}

// Slugify lowercases a name and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
