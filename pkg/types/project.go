package types

import "encoding/json"

// Section is an ordered list of task ids belonging to a project. The list
// is the ground truth for both display order and section membership; there
// is no separate order field.
type Section struct {
	SectionID string   `json:"id"`
	Name      string   `json:"name"`
	Items     []string `json:"items"`
}

// MarshalJSON normalizes a nil Items slice to an empty array; the persisted
// shape always carries "items": [].
func (s Section) MarshalJSON() ([]byte, error) {
	type alias Section
	a := alias(s)
	if a.Items == nil {
		a.Items = []string{}
	}
	return json.Marshal(a)
}

// Contains reports whether the section holds the given task id.
func (s *Section) Contains(taskID string) bool {
	for _, id := range s.Items {
		if id == taskID {
			return true
		}
	}
	return false
}

// Project groups tasks into ordered sections.
//
// Invariants: every section item references a task whose ProjectID equals
// this project's id, and a task appears in at most one section across the
// whole project. Both are enforced by Document.Validate and by the ordering
// operations, not by stored back-pointers.
type Project struct {
	ProjectID string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Sections  []Section `json:"sections"`
}

// MarshalJSON normalizes a nil Sections slice to an empty array.
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	a := alias(p)
	if a.Sections == nil {
		a.Sections = []Section{}
	}
	return json.Marshal(a)
}

// Section returns the section with the given id, or nil.
func (p *Project) Section(sectionID string) *Section {
	for i := range p.Sections {
		if p.Sections[i].SectionID == sectionID {
			return &p.Sections[i]
		}
	}
	return nil
}

// SectionOf returns the section currently holding the given task id, or nil
// when the task is unsectioned.
func (p *Project) SectionOf(taskID string) *Section {
	for i := range p.Sections {
		if p.Sections[i].Contains(taskID) {
			return &p.Sections[i]
		}
	}
	return nil
}

// Label is a named tag applied to tasks.
type Label struct {
	LabelID string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Color   string `json:"color,omitempty"`
}
