package view

import (
	"slices"
	"testing"
)

func TestComboState(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		selected int
		want     []string
		current  int
	}{
		{"empty shows none", nil, -1, []string{noneItem}, 0},
		{"selected", []string{"a", "b"}, 1, []string{"a", "b"}, 1},
		{"deselected clears text", []string{"a"}, -1, []string{"a"}, -1},
		{"stale index clears text", []string{"a"}, 3, []string{"a"}, -1},
	}
	for _, tt := range tests {
		values, current := comboState(tt.items, tt.selected)
		if !slices.Equal(values, tt.want) || current != tt.current {
			t.Fatalf("%s: got %v/%d, want %v/%d", tt.name, values, current, tt.want, tt.current)
		}
	}
}

func TestSafeWrapsNil(t *testing.T) {
	safe(nil)()
	called := false
	safe(func() { called = true })()
	if !called {
		t.Fatalf("wrapped func not called")
	}
}
