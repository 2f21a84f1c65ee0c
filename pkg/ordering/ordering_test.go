package ordering

import (
	"reflect"
	"testing"
)

func TestComputeReorderedItems(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		dragged []string
		target  string
		pos     Position
		want    []string
	}{
		{
			name:    "same-section reorder after",
			current: []string{"A", "B", "C", "D"},
			dragged: []string{"A"},
			target:  "B",
			pos:     ReorderAfter,
			want:    []string{"B", "A", "C", "D"},
		},
		{
			name:    "same-section reorder before",
			current: []string{"A", "B", "C", "D"},
			dragged: []string{"D"},
			target:  "B",
			pos:     ReorderBefore,
			want:    []string{"A", "D", "B", "C"},
		},
		{
			name:    "cross-section insert after",
			current: []string{"T1", "T2", "T3"},
			dragged: []string{"T4"},
			target:  "T2",
			pos:     ReorderAfter,
			want:    []string{"T1", "T2", "T4", "T3"},
		},
		{
			name:    "cross-section insert before first",
			current: []string{"T1", "T2"},
			dragged: []string{"T9"},
			target:  "T1",
			pos:     ReorderBefore,
			want:    []string{"T9", "T1", "T2"},
		},
		{
			name:    "multi-item move keeps dragged order",
			current: []string{"T1", "T2", "T3", "T4"},
			dragged: []string{"T1", "T2"},
			target:  "T4",
			pos:     ReorderAfter,
			want:    []string{"T3", "T4", "T1", "T2"},
		},
		{
			name:    "dragged order wins over prior positions",
			current: []string{"T1", "T2", "T3", "T4"},
			dragged: []string{"T3", "T1"},
			target:  "T2",
			pos:     ReorderBefore,
			want:    []string{"T3", "T1", "T2", "T4"},
		},
		{
			name:    "missing target appends",
			current: []string{"A", "B"},
			dragged: []string{"C"},
			target:  "Z",
			pos:     ReorderBefore,
			want:    []string{"A", "B", "C"},
		},
		{
			name:    "empty current list",
			current: nil,
			dragged: []string{"A", "B"},
			target:  "Z",
			pos:     ReorderAfter,
			want:    []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReorderedItems(tt.current, tt.dragged, tt.target, tt.pos)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeReorderedItemsDoesNotMutateInputs(t *testing.T) {
	current := []string{"A", "B", "C"}
	dragged := []string{"C"}
	ComputeReorderedItems(current, dragged, "A", ReorderBefore)
	if !reflect.DeepEqual(current, []string{"A", "B", "C"}) {
		t.Fatalf("current mutated: %v", current)
	}
	if !reflect.DeepEqual(dragged, []string{"C"}) {
		t.Fatalf("dragged mutated: %v", dragged)
	}
}

// TestComputeReorderedItemsPermutation checks that the result is always a
// permutation of (current \ dragged) plus dragged: nothing lost, nothing
// duplicated, whether the dragged ids come from the list or outside it.
func TestComputeReorderedItemsPermutation(t *testing.T) {
	cases := []struct {
		current []string
		dragged []string
		target  string
		pos     Position
	}{
		{[]string{"A", "B", "C", "D", "E"}, []string{"B", "D"}, "E", ReorderBefore},
		{[]string{"A", "B", "C"}, []string{"X", "Y"}, "B", ReorderAfter},
		{[]string{"A"}, []string{"B"}, "A", ReorderAfter},
		{[]string{"A", "B", "C", "D"}, []string{"D", "A"}, "C", ReorderBefore},
		{nil, []string{"A"}, "", ReorderAfter},
	}

	for _, c := range cases {
		got := ComputeReorderedItems(c.current, c.dragged, c.target, c.pos)

		want := make(map[string]int)
		for _, id := range c.current {
			want[id] = 1
		}
		for _, id := range c.dragged {
			want[id] = 1
		}
		if len(got) != len(want) {
			t.Fatalf("%v + %v: got %d items %v, want %d", c.current, c.dragged, len(got), got, len(want))
		}
		seen := make(map[string]bool, len(got))
		for _, id := range got {
			if seen[id] {
				t.Fatalf("duplicate %s in %v", id, got)
			}
			seen[id] = true
			if want[id] == 0 {
				t.Fatalf("unexpected id %s in %v", id, got)
			}
		}
	}
}

func TestComputeReorderedItemsIdempotent(t *testing.T) {
	first := ComputeReorderedItems([]string{"A", "B", "C", "D"}, []string{"B", "C"}, "D", ReorderBefore)
	second := ComputeReorderedItems(first, []string{"B", "C"}, "D", ReorderBefore)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v then %v", first, second)
	}
}

func TestRemove(t *testing.T) {
	got := Remove([]string{"A", "B", "C", "B"}, "B", "Z")
	want := []string{"A", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertAfter(t *testing.T) {
	got := InsertAfter([]string{"A", "B", "C"}, "N", "A")
	want := []string{"A", "N", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = InsertAfter([]string{"A", "B"}, "N", "missing")
	want = []string{"A", "B", "N"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("missing anchor: got %v, want %v", got, want)
	}
}
