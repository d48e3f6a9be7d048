package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSnapshotJSON_Keys(t *testing.T) {
	snap := &Snapshot{
		Version: 1,
		Columns: []*Column{
			{
				ID:     2,
				Title:  "Doing",
				Cards:  []*Card{{ID: 7, Title: "Write docs", Description: "all of them", IsNew: false}},
				SortBy: SortDesc,
			},
		},
		NextColumnID:     3,
		NextCardID:       8,
		IsDisabledGlobal: true,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{
		`"_v":1`, `"columns"`, `"nextColumnId":3`, `"nextCardId":8`, `"isDisabledGlobal":true`,
		`"editingDisabled":false`, `"sortBy":"desc"`, `"isNew":false`, `"description":"all of them"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("expected %s in %s", key, data)
		}
	}
}

func TestSnapshotJSON_RoundTrip(t *testing.T) {
	original := &Snapshot{
		Columns: []*Column{
			{ID: 1, Title: "TODO", Cards: []*Card{{ID: 1, Title: "a"}, {ID: 3, Title: "b", IsNew: true}}, SortBy: SortAsc},
			{ID: 4, Title: "", Cards: []*Card{}, IsNew: true, EditingDisabled: true, SortBy: SortAsc},
		},
		NextColumnID: 5,
		NextCardID:   4,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored Snapshot
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, &restored) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", restored, original)
	}
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	original := &Snapshot{
		Columns: []*Column{{ID: 1, Title: "TODO", Cards: []*Card{{ID: 1, Title: "a"}}}},
	}

	clone := original.Clone()
	clone.Columns[0].Title = "changed"
	clone.Columns[0].Cards[0].Title = "changed"
	clone.Columns[0].Cards = append(clone.Columns[0].Cards, &Card{ID: 2})

	if original.Columns[0].Title != "TODO" {
		t.Errorf("column title leaked into original: %q", original.Columns[0].Title)
	}
	if original.Columns[0].Cards[0].Title != "a" {
		t.Errorf("card title leaked into original: %q", original.Columns[0].Cards[0].Title)
	}
	if len(original.Columns[0].Cards) != 1 {
		t.Errorf("card slice leaked into original: %d cards", len(original.Columns[0].Cards))
	}
}

func TestSnapshot_TotalCards(t *testing.T) {
	snap := &Snapshot{Columns: []*Column{
		{Cards: []*Card{{ID: 1}, {ID: 2}}},
		{Cards: []*Card{}},
		{Cards: []*Card{{ID: 3}}},
	}}
	if got := snap.TotalCards(); got != 3 {
		t.Errorf("TotalCards() = %d, want 3", got)
	}
}

func TestColumn_RemoveCard(t *testing.T) {
	col := &Column{Cards: []*Card{{ID: 1}, {ID: 2}, {ID: 3}}}

	removed := col.RemoveCard(2)
	if removed == nil || removed.ID != 2 {
		t.Fatalf("RemoveCard(2) = %v, want card 2", removed)
	}
	if got := cardIDs(col.Cards); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("cards after remove = %v, want [1 3]", got)
	}

	if col.RemoveCard(99) != nil {
		t.Error("RemoveCard on missing id should return nil")
	}
	if len(col.Cards) != 2 {
		t.Errorf("missing remove changed length to %d", len(col.Cards))
	}
}

func TestSortBy_Toggle(t *testing.T) {
	tests := []struct {
		in   SortBy
		want SortBy
	}{
		{SortAsc, SortDesc},
		{SortDesc, SortAsc},
		{"", SortAsc},
	}
	for _, tt := range tests {
		if got := tt.in.Toggle(); got != tt.want {
			t.Errorf("%q.Toggle() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortCards(t *testing.T) {
	cards := []*Card{{ID: 1, Title: "banana"}, {ID: 2, Title: "Apple"}, {ID: 3, Title: "cherry"}}

	asc := SortCards(cards, SortAsc)
	if got := cardIDs(asc); !reflect.DeepEqual(got, []int{2, 1, 3}) {
		t.Errorf("asc order = %v, want [2 1 3]", got)
	}

	desc := SortCards(cards, SortDesc)
	if got := cardIDs(desc); !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("desc order = %v, want [3 1 2]", got)
	}

	// Stored order is untouched
	if got := cardIDs(cards); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("input reordered to %v", got)
	}
}

func TestDropInstruction_To(t *testing.T) {
	move := DropInstruction{CardID: 5, FromColumnID: 2}.To(1)
	want := CardMove{CardID: 5, FromColumnID: 2, ToColumnID: 1}
	if move != want {
		t.Errorf("To() = %+v, want %+v", move, want)
	}
}

func cardIDs(cards []*Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
