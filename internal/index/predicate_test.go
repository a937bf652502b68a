package index

import "testing"

func TestCompilePredicate(t *testing.T) {
	t.Run("empty matches everything", func(t *testing.T) {
		cond, args := compilePredicate(nil)
		if cond != "1=1" {
			t.Errorf("condition = %q, want 1=1", cond)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("single pair", func(t *testing.T) {
		cond, args := compilePredicate(Filter{"stain": "dapi"})
		want := "((key_id = (SELECT id FROM annotation_key WHERE name = ?) AND value = ?))"
		if cond != want {
			t.Errorf("condition = %q, want %q", cond, want)
		}
		if len(args) != 2 || args[0] != "stain" || args[1] != "dapi" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("pairs joined by OR in sorted key order", func(t *testing.T) {
		cond, args := compilePredicate(Filter{"stain": "dapi", "channel": "0"})
		want := "((key_id = (SELECT id FROM annotation_key WHERE name = ?) AND value = ?)" +
			" OR (key_id = (SELECT id FROM annotation_key WHERE name = ?) AND value = ?))"
		if cond != want {
			t.Errorf("condition = %q", cond)
		}
		// Sorted: channel before stain.
		if args[0] != "channel" || args[1] != "0" || args[2] != "stain" || args[3] != "dapi" {
			t.Errorf("args = %v", args)
		}
	})
}

func TestFilterKeysSorted(t *testing.T) {
	keys := filterKeys(Filter{"b": "1", "a": "2", "c": "3"})
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
