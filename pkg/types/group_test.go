package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGroupItemJSONRoundTrip(t *testing.T) {
	group := Group{
		GroupID: "g1",
		Name:    "Clients",
		Slug:    "clients",
		Type:    GroupTypeProject,
		Items: []GroupItem{
			LeafItem("p1"),
			SubgroupItem(&Group{
				GroupID: "g2",
				Name:    "Active",
				Slug:    "active",
				Type:    GroupTypeProject,
				Items:   []GroupItem{LeafItem("p2")},
			}),
			LeafItem("p3"),
		},
	}

	data, err := json.Marshal(group)
	if err != nil {
		t.Fatal(err)
	}
	// Leaves are bare strings on the wire, nested groups are objects.
	if !strings.Contains(string(data), `"p1",{`) {
		t.Fatalf("unexpected wire shape: %s", data)
	}

	var back Group
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Items) != 3 {
		t.Fatalf("items %d, want 3", len(back.Items))
	}
	if !back.Items[0].IsLeaf() || back.Items[0].LeafID != "p1" {
		t.Fatalf("item 0: %+v", back.Items[0])
	}
	if back.Items[1].IsLeaf() || back.Items[1].Group.GroupID != "g2" {
		t.Fatalf("item 1: %+v", back.Items[1])
	}
	if nested := back.Items[1].Group.Items; len(nested) != 1 || nested[0].LeafID != "p2" {
		t.Fatalf("nested items: %+v", nested)
	}
}

func TestGroupMarshalNormalizesNilItems(t *testing.T) {
	data, err := json.Marshal(Group{GroupID: "g", Type: GroupTypeLabel})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Fatalf("nil items must encode as []: %s", data)
	}
}

func TestGroupValidateDeepNesting(t *testing.T) {
	// A long same-type chain validates; flipping the innermost type fails.
	inner := &Group{GroupID: "g0", Type: GroupTypeProject}
	node := inner
	for i := 1; i < 2000; i++ {
		node = &Group{
			GroupID: nodeID(i),
			Type:    GroupTypeProject,
			Items:   []GroupItem{SubgroupItem(node)},
		}
	}
	if err := node.Validate(); err != nil {
		t.Fatal(err)
	}

	inner.Type = GroupTypeLabel
	if err := node.Validate(); err == nil {
		t.Fatal("expected type mismatch deep in the chain")
	}
}

func nodeID(i int) string {
	return "g" + string(rune('a'+i%26)) + "-" + string(rune('0'+i%10))
}
