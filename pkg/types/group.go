package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GroupType discriminates the two group forests. A tree holds either
// project groups over project ids or label groups over label ids; the two
// kinds never mix within one tree.
type GroupType string

// Group types.
const (
	GroupTypeProject GroupType = "project"
	GroupTypeLabel   GroupType = "label"
)

// Valid reports whether t is a recognized group type.
func (t GroupType) Valid() bool {
	return t == GroupTypeProject || t == GroupTypeLabel
}

// GroupItem is a tagged union: either a leaf id (project or label id,
// depending on the owning tree's type) or a nested group. Exactly one of
// the two fields is set.
//
// On the wire a leaf is a bare JSON string and a nested group is an object,
// matching the persisted document shape.
type GroupItem struct {
	LeafID string
	Group  *Group
}

// LeafItem returns a GroupItem holding a leaf id.
func LeafItem(id string) GroupItem {
	return GroupItem{LeafID: id}
}

// SubgroupItem returns a GroupItem holding a nested group.
func SubgroupItem(g *Group) GroupItem {
	return GroupItem{Group: g}
}

// IsLeaf reports whether the item is a leaf id rather than a nested group.
func (it GroupItem) IsLeaf() bool {
	return it.Group == nil
}

// MarshalJSON encodes a leaf as a JSON string and a nested group as an
// object.
func (it GroupItem) MarshalJSON() ([]byte, error) {
	if it.Group != nil {
		return json.Marshal(it.Group)
	}
	return json.Marshal(it.LeafID)
}

// UnmarshalJSON decodes a JSON string as a leaf id and an object as a
// nested group.
func (it *GroupItem) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty group item")
	}
	if trimmed[0] == '"' {
		it.Group = nil
		return json.Unmarshal(trimmed, &it.LeafID)
	}
	g := &Group{}
	if err := json.Unmarshal(trimmed, g); err != nil {
		return err
	}
	it.LeafID = ""
	it.Group = g
	return nil
}

// Group is a node in a group forest. Nodes are owned by exactly one
// parent's Items list; there are no parent pointers and no sharing, so a
// tree can never alias or cycle by construction.
type Group struct {
	GroupID string      `json:"id"`
	Name    string      `json:"name"`
	Slug    string      `json:"slug"`
	Color   string      `json:"color,omitempty"`
	Type    GroupType   `json:"type"`
	Items   []GroupItem `json:"items"`
}

// MarshalJSON normalizes a nil Items slice to an empty array so the
// persisted shape always carries "items": [].
func (g Group) MarshalJSON() ([]byte, error) {
	type alias Group
	a := alias(g)
	if a.Items == nil {
		a.Items = []GroupItem{}
	}
	return json.Marshal(a)
}

// Validate checks the subtree rooted at g: non-empty ids, a recognized
// type, and type homogeneity (nested groups carry the same type as their
// parent). Traversal uses an explicit stack; depth is unbounded.
func (g *Group) Validate() error {
	stack := []*Group{g}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.GroupID == "" {
			return ErrInvalidID
		}
		if !node.Type.Valid() {
			return fmt.Errorf("group %s: %w", node.GroupID, ErrTypeMismatch)
		}
		for _, item := range node.Items {
			if item.IsLeaf() {
				if item.LeafID == "" {
					return fmt.Errorf("group %s: %w", node.GroupID, ErrInvalidID)
				}
				continue
			}
			if item.Group.Type != node.Type {
				return fmt.Errorf("group %s holds %s child %s: %w",
					node.GroupID, item.Group.Type, item.Group.GroupID, ErrTypeMismatch)
			}
			stack = append(stack, item.Group)
		}
	}
	return nil
}
