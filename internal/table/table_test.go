package table

import "testing"

func TestAddColumnBackfills(t *testing.T) {
	tbl := New("location")
	tbl.AppendRow("1")
	tbl.AddColumn("stain")

	got, ok := tbl.Get(0, "stain")
	if ok {
		t.Errorf("expected NoValue for backfilled cell, got %q", got)
	}
	if len(tbl.Columns()) != 2 {
		t.Fatalf("columns = %v", tbl.Columns())
	}
}

func TestAddColumnIdempotent(t *testing.T) {
	tbl := New("a")
	tbl.AddColumn("a")
	if len(tbl.Columns()) != 1 {
		t.Errorf("duplicate column added: %v", tbl.Columns())
	}
}

func TestSetAndGet(t *testing.T) {
	tbl := New("location", "stain")
	row := tbl.AppendRow("1")
	if err := tbl.Set(row, "stain", "dapi"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := tbl.Get(row, "stain")
	if !ok || got != "dapi" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := tbl.Set(row, "missing", "x"); err == nil {
		t.Error("expected error for unknown column")
	}
	if err := tbl.Set(5, "stain", "x"); err == nil {
		t.Error("expected error for out-of-range row")
	}
}

func TestGetUnknownColumn(t *testing.T) {
	tbl := New("a")
	tbl.AppendRow("1")
	if _, ok := tbl.Get(0, "nope"); ok {
		t.Error("expected ok=false for unknown column")
	}
}

func TestAppendRowPadsAndTruncates(t *testing.T) {
	tbl := New("a", "b")
	tbl.AppendRow("1")
	tbl.AppendRow("1", "2", "3")

	if _, ok := tbl.Get(0, "b"); ok {
		t.Error("short row should pad with NoValue")
	}
	if got := tbl.Row(1); len(got) != 2 {
		t.Errorf("long row not truncated: %v", got)
	}
}
