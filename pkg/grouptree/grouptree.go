// Package grouptree implements find, insert, cascade delete, and leaf
// collection over a group forest.
//
// A forest is a types.Group root whose nodes own their children through
// their Items lists; there are no parent pointers. Parents are located by
// re-traversing from the root, and all traversals use explicit stacks, so
// tree depth is bounded only by memory, never by the call stack.
package grouptree

import (
	"fmt"

	"github.com/mesh-intelligence/trove/pkg/types"
)

// frame pairs a node with its position in the parent's Items list during
// traversal. The root carries a nil parent.
type frame struct {
	node   *types.Group
	parent *types.Group
	index  int
}

// findFrame locates the group with the given id via depth-first, pre-order
// search and returns its traversal frame. Ids are unique by construction,
// so the first match is the only one. Returns ok=false when the id is not
// in the tree.
func findFrame(root *types.Group, id string) (frame, bool) {
	stack := []frame{{node: root, parent: nil, index: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.GroupID == id {
			return f, true
		}
		// Push children in reverse so they pop in Items order.
		for i := len(f.node.Items) - 1; i >= 0; i-- {
			item := f.node.Items[i]
			if !item.IsLeaf() {
				stack = append(stack, frame{node: item.Group, parent: f.node, index: i})
			}
		}
	}
	return frame{}, false
}

// FindByID returns the group with the given id, searching depth-first from
// the root, or nil when the tree does not contain it. Searching an empty
// tree finds nothing but the root itself.
func FindByID(root *types.Group, id string) *types.Group {
	f, ok := findFrame(root, id)
	if !ok {
		return nil
	}
	return f.node
}

// CollectLeafIDs returns every leaf id reachable from the named group in
// pre-order, Items-list order at each level. Returns ErrNotFound when the
// tree has no group with that id.
func CollectLeafIDs(root *types.Group, groupID string) ([]string, error) {
	start := FindByID(root, groupID)
	if start == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}

	leaves := []string{}
	stack := make([]types.GroupItem, 0, len(start.Items))
	for i := len(start.Items) - 1; i >= 0; i-- {
		stack = append(stack, start.Items[i])
	}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.IsLeaf() {
			leaves = append(leaves, item.LeafID)
			continue
		}
		for i := len(item.Group.Items) - 1; i >= 0; i-- {
			stack = append(stack, item.Group.Items[i])
		}
	}
	return leaves, nil
}

// Insert appends newGroup to parent's Items. Returns ErrTypeMismatch when
// the two groups carry different types; a project tree never holds label
// groups and vice versa.
func Insert(parent, newGroup *types.Group) error {
	if newGroup.Type != parent.Type {
		return fmt.Errorf("inserting %s group %s into %s group %s: %w",
			newGroup.Type, newGroup.GroupID, parent.Type, parent.GroupID, types.ErrTypeMismatch)
	}
	parent.Items = append(parent.Items, types.SubgroupItem(newGroup))
	return nil
}

// InsertLeaf appends a leaf id to parent's Items.
func InsertLeaf(parent *types.Group, leafID string) {
	parent.Items = append(parent.Items, types.LeafItem(leafID))
}

// CascadeDelete removes the group with the given id together with its
// entire subtree. The parent is found during the same traversal, not via a
// back-pointer. Returns false without mutating when groupID names the root
// (roots are undeletable) or is not in the tree.
//
// Leaf ids under the deleted subtree are not deleted from the document's
// project or label collections; they only lose their group membership.
func CascadeDelete(root *types.Group, groupID string) bool {
	if root.GroupID == groupID {
		return false
	}
	f, ok := findFrame(root, groupID)
	if !ok {
		return false
	}
	parent := f.parent
	parent.Items = append(parent.Items[:f.index], parent.Items[f.index+1:]...)
	return true
}

// RemoveLeaf removes every occurrence of leafID from the whole tree.
// Returns true when at least one occurrence was removed. Used to scrub
// group membership when a project or label is deleted outright.
func RemoveLeaf(root *types.Group, leafID string) bool {
	removed := false
	stack := []*types.Group{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kept := node.Items[:0]
		for _, item := range node.Items {
			if item.IsLeaf() && item.LeafID == leafID {
				removed = true
				continue
			}
			if !item.IsLeaf() {
				stack = append(stack, item.Group)
			}
			kept = append(kept, item)
		}
		node.Items = kept
	}
	return removed
}

// BulkReplaceRootItems replaces the root's Items wholesale. Used for
// top-level drag-to-reorder of groups and ungrouped entries. Nested groups
// in newItems must match the root's type; beyond that the caller is
// responsible for not losing ids.
func BulkReplaceRootItems(root *types.Group, newItems []types.GroupItem) error {
	for _, item := range newItems {
		if !item.IsLeaf() && item.Group.Type != root.Type {
			return fmt.Errorf("root %s given %s group %s: %w",
				root.GroupID, item.Group.Type, item.Group.GroupID, types.ErrTypeMismatch)
		}
	}
	root.Items = newItems
	return nil
}
