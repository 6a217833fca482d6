package selfcare

import (
	"reflect"
	"testing"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	sel := Toggle(nil, "water")
	if !reflect.DeepEqual(sel, []string{"water"}) {
		t.Fatalf("after first toggle: %v", sel)
	}
	sel = Toggle(sel, "move")
	if len(sel) != 2 {
		t.Fatalf("after second toggle: %v", sel)
	}
	sel = Toggle(sel, "water")
	if !reflect.DeepEqual(sel, []string{"move"}) {
		t.Fatalf("toggle off should remove the tag: %v", sel)
	}
}

func TestToggleRejectsUnknownTag(t *testing.T) {
	sel := []string{"meal"}
	if got := Toggle(sel, "sleep"); !reflect.DeepEqual(got, sel) {
		t.Errorf("unknown tag changed the selection: %v", got)
	}
}

func TestToggleNeverDuplicates(t *testing.T) {
	sel := []string{"hobby"}
	sel = Toggle(Toggle(sel, "hobby"), "hobby")
	if !reflect.DeepEqual(sel, []string{"hobby"}) {
		t.Errorf("double toggle should round-trip: %v", sel)
	}
}

func TestCanonical(t *testing.T) {
	got := Canonical([]string{"hobby", "meal", "hobby", "bogus", "water"})
	want := []string{"meal", "water", "hobby"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Canonical = %v, want %v", got, want)
	}
}
