package sqlutil

import "testing"

func TestInClauseArgs(t *testing.T) {
	t.Run("empty matches nothing", func(t *testing.T) {
		ph, args := InClauseArgs([]string(nil))
		if ph != "NULL" {
			t.Errorf("placeholders = %q, want NULL", ph)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("strings", func(t *testing.T) {
		ph, args := InClauseArgs([]string{"a", "b"})
		if ph != "?, ?" {
			t.Errorf("placeholders = %q", ph)
		}
		if len(args) != 2 || args[0] != "a" || args[1] != "b" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("int64 ids", func(t *testing.T) {
		ph, args := InClauseArgs([]int64{1, 2, 3})
		if ph != "?, ?, ?" {
			t.Errorf("placeholders = %q", ph)
		}
		if len(args) != 3 || args[2] != int64(3) {
			t.Errorf("args = %v", args)
		}
	})
}
