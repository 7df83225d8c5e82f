package session

import "testing"

func TestResultSetLabels(t *testing.T) {
	paths := []string{
		"/roms/snes/Super Mario World.sfc",
		"/roms/snes/hacks/Kaizo.sfc",
	}
	rs := NewResultSet("snes", "mario", "/roms/snes", paths)

	want := []string{"Super Mario World.sfc", "hacks/Kaizo.sfc"}
	if len(rs.Labels) != len(want) {
		t.Fatalf("Expected %d labels, got %d", len(want), len(rs.Labels))
	}
	for i := range want {
		if rs.Labels[i] != want[i] {
			t.Errorf("Label %d: expected %q, got %q", i, want[i], rs.Labels[i])
		}
	}
}

func TestResultSetRemoteFor(t *testing.T) {
	rs := NewResultSet("snes", "mario", "/roms/snes", []string{"/roms/snes/a.sfc"})

	got, ok := rs.RemoteFor("a.sfc")
	if !ok || got != "/roms/snes/a.sfc" {
		t.Errorf("Expected /roms/snes/a.sfc, got %q (ok=%v)", got, ok)
	}
	if _, ok := rs.RemoteFor("missing.sfc"); ok {
		t.Error("Expected lookup miss for unknown label")
	}
}

func TestResultSetOptionsEndWithBack(t *testing.T) {
	rs := NewResultSet("snes", "mario", "/roms/snes", []string{"/roms/snes/a.sfc"})

	opts := rs.Options()
	if len(opts) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(opts))
	}
	if opts[len(opts)-1] != BackEntry {
		t.Errorf("Expected last option %q, got %q", BackEntry, opts[len(opts)-1])
	}
}

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	if !s.Toggle("a") {
		t.Error("Expected first toggle to select")
	}
	if !s.Has("a") || s.Len() != 1 {
		t.Errorf("Expected a selected, len 1; got len %d", s.Len())
	}
	if s.Toggle("a") {
		t.Error("Expected second toggle to unselect")
	}
	if s.Has("a") || s.Len() != 0 {
		t.Errorf("Expected empty selection, got len %d", s.Len())
	}
}

func TestSelectionOrderedFollowsDisplayOrder(t *testing.T) {
	s := NewSelection()
	labels := []string{"a", "b", "c", "d"}

	// Toggle out of display order
	s.Toggle("d")
	s.Toggle("b")
	s.Toggle("a")

	got := s.Ordered(labels)
	want := []string{"a", "b", "d"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Expected empty selection after clear, got %d", s.Len())
	}
}
