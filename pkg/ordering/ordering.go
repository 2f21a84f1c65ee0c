// Package ordering computes new section item lists for drag reorders.
//
// A section's item list is the single source of truth for both task order
// and section membership, so every reorder (same-section, cross-section,
// single- or multi-item) reduces to computing one new list for the target
// section. The functions here are pure: they never mutate their inputs and
// hold no state.
package ordering

// Position says where the dragged block lands relative to the target item.
type Position string

// Reorder positions.
const (
	ReorderBefore Position = "reorderBefore"
	ReorderAfter  Position = "reorderAfter"
)

// ComputeReorderedItems returns the target section's new item list after
// dropping draggedIDs next to targetID.
//
// The dragged ids are first removed from current wherever present (a no-op
// for ids foreign to the list, the cross-section case), then spliced as one
// contiguous block immediately before or after targetID. The block keeps
// draggedIDs' own order, not the ids' prior positions in current. When
// targetID is absent from the remaining list the block is appended; a
// missing target is a defined fallback, not an error.
//
// Callers must ensure draggedIDs holds no duplicates and does not contain
// targetID. For a cross-section move the caller separately removes the ids
// from the source section's list; this function only computes the target
// list. Re-applying the same move to its own result is a no-op.
func ComputeReorderedItems(current, draggedIDs []string, targetID string, pos Position) []string {
	dragged := make(map[string]bool, len(draggedIDs))
	for _, id := range draggedIDs {
		dragged[id] = true
	}

	remaining := make([]string, 0, len(current)+len(draggedIDs))
	for _, id := range current {
		if !dragged[id] {
			remaining = append(remaining, id)
		}
	}

	targetIdx := -1
	for i, id := range remaining {
		if id == targetID {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return append(remaining, draggedIDs...)
	}

	insertAt := targetIdx
	if pos == ReorderAfter {
		insertAt = targetIdx + 1
	}

	result := make([]string, 0, len(remaining)+len(draggedIDs))
	result = append(result, remaining[:insertAt]...)
	result = append(result, draggedIDs...)
	result = append(result, remaining[insertAt:]...)
	return result
}

// Remove returns list without the given ids, preserving the order of the
// survivors. Used to scrub a source section during a cross-section move and
// to drop deleted tasks from section lists.
func Remove(list []string, ids ...string) []string {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	result := make([]string, 0, len(list))
	for _, id := range list {
		if !drop[id] {
			result = append(result, id)
		}
	}
	return result
}

// InsertAfter returns list with id spliced in immediately after afterID,
// appending when afterID is absent. Used when a recurrence expansion places
// the new instance next to its completed parent.
func InsertAfter(list []string, id, afterID string) []string {
	return ComputeReorderedItems(list, []string{id}, afterID, ReorderAfter)
}
