package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// DocumentVersion is the current persisted document format version.
const DocumentVersion = 1

// Root group ids. The two forest roots are created at bootstrap and are
// never deleted; only their Items are replaced.
const (
	RootProjectGroupID = "root-project-group"
	RootLabelGroupID   = "root-label-group"
)

// Document is the single root persisted object. Exactly one Document exists
// per store; it is the unit of persistence and of locking.
type Document struct {
	Version       int       `json:"version"`
	Tasks         []Task    `json:"tasks"`
	Projects      []Project `json:"projects"`
	Labels        []Label   `json:"labels"`
	ProjectGroups Group     `json:"projectGroups"`
	LabelGroups   Group     `json:"labelGroups"`
}

// NewID returns a fresh UUID v7 entity id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewDocument returns an empty document with the two root groups in place.
func NewDocument() *Document {
	return &Document{
		Version:  DocumentVersion,
		Tasks:    []Task{},
		Projects: []Project{},
		Labels:   []Label{},
		ProjectGroups: Group{
			GroupID: RootProjectGroupID,
			Name:    "All Projects",
			Slug:    "all-projects",
			Type:    GroupTypeProject,
			Items:   []GroupItem{},
		},
		LabelGroups: Group{
			GroupID: RootLabelGroupID,
			Name:    "All Labels",
			Slug:    "all-labels",
			Type:    GroupTypeLabel,
			Items:   []GroupItem{},
		},
	}
}

// MarshalJSON normalizes nil collections to empty arrays so the persisted
// shape always carries arrays, matching the document schema.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	a := alias(d)
	if a.Tasks == nil {
		a.Tasks = []Task{}
	}
	if a.Projects == nil {
		a.Projects = []Project{}
	}
	if a.Labels == nil {
		a.Labels = []Label{}
	}
	return json.Marshal(a)
}

// Task returns the task with the given id, or nil.
func (d *Document) Task(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].TaskID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Project returns the project with the given id, or nil.
func (d *Document) Project(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ProjectID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// Label returns the label with the given id, or nil.
func (d *Document) Label(id string) *Label {
	for i := range d.Labels {
		if d.Labels[i].LabelID == id {
			return &d.Labels[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document via a JSON round trip. The
// document is JSON-native, so the round trip preserves it exactly.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone marshal: %w", err)
	}
	var cp Document
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("clone unmarshal: %w", err)
	}
	return &cp, nil
}

// Validate checks the document's referential invariants:
//
//   - entity ids are unique within their collection;
//   - every section item references an existing task whose ProjectID equals
//     the owning project's id;
//   - a task appears in at most one section across the whole document;
//   - the two group trees carry the right type, are type-homogeneous, and
//     contain no duplicate group ids.
//
// Group leaf ids are not required to reference live projects or labels; the
// trees model grouping, not ownership, and a dangling leaf only means lost
// membership.
func (d *Document) Validate() error {
	if d.Version < 1 {
		return fmt.Errorf("document version %d: %w", d.Version, ErrValidationFailure)
	}

	taskIDs := make(map[string]bool, len(d.Tasks))
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.TaskID, err)
		}
		if taskIDs[t.TaskID] {
			return fmt.Errorf("duplicate task id %s: %w", t.TaskID, ErrValidationFailure)
		}
		taskIDs[t.TaskID] = true
	}

	projectIDs := make(map[string]bool, len(d.Projects))
	sectioned := make(map[string]string) // task id -> section id holding it
	for i := range d.Projects {
		p := &d.Projects[i]
		if p.ProjectID == "" {
			return ErrInvalidID
		}
		if projectIDs[p.ProjectID] {
			return fmt.Errorf("duplicate project id %s: %w", p.ProjectID, ErrValidationFailure)
		}
		projectIDs[p.ProjectID] = true

		sectionIDs := make(map[string]bool, len(p.Sections))
		for j := range p.Sections {
			s := &p.Sections[j]
			if s.SectionID == "" {
				return ErrInvalidID
			}
			if sectionIDs[s.SectionID] {
				return fmt.Errorf("project %s: duplicate section id %s: %w",
					p.ProjectID, s.SectionID, ErrValidationFailure)
			}
			sectionIDs[s.SectionID] = true

			for _, taskID := range s.Items {
				task := d.Task(taskID)
				if task == nil {
					return fmt.Errorf("section %s references missing task %s: %w",
						s.SectionID, taskID, ErrValidationFailure)
				}
				if task.ProjectID != p.ProjectID {
					return fmt.Errorf("section %s holds task %s owned by project %q: %w",
						s.SectionID, taskID, task.ProjectID, ErrValidationFailure)
				}
				if prev, ok := sectioned[taskID]; ok {
					return fmt.Errorf("task %s appears in sections %s and %s: %w",
						taskID, prev, s.SectionID, ErrValidationFailure)
				}
				sectioned[taskID] = s.SectionID
			}
		}
	}

	labelIDs := make(map[string]bool, len(d.Labels))
	for i := range d.Labels {
		l := &d.Labels[i]
		if l.LabelID == "" {
			return ErrInvalidID
		}
		if labelIDs[l.LabelID] {
			return fmt.Errorf("duplicate label id %s: %w", l.LabelID, ErrValidationFailure)
		}
		labelIDs[l.LabelID] = true
	}

	if d.ProjectGroups.Type != GroupTypeProject {
		return fmt.Errorf("project forest typed %q: %w", d.ProjectGroups.Type, ErrTypeMismatch)
	}
	if d.LabelGroups.Type != GroupTypeLabel {
		return fmt.Errorf("label forest typed %q: %w", d.LabelGroups.Type, ErrTypeMismatch)
	}
	for _, root := range []*Group{&d.ProjectGroups, &d.LabelGroups} {
		if err := root.Validate(); err != nil {
			return err
		}
		if err := checkUniqueGroupIDs(root); err != nil {
			return err
		}
	}
	return nil
}

// checkUniqueGroupIDs walks the subtree and rejects duplicate group ids.
// Duplicates cannot arise through the tree operations, which own nodes by
// container; this guards documents edited outside the store.
func checkUniqueGroupIDs(root *Group) error {
	seen := make(map[string]bool)
	stack := []*Group{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[node.GroupID] {
			return fmt.Errorf("duplicate group id %s: %w", node.GroupID, ErrValidationFailure)
		}
		seen[node.GroupID] = true
		for _, item := range node.Items {
			if !item.IsLeaf() {
				stack = append(stack, item.Group)
			}
		}
	}
	return nil
}
