package index

import (
	"reflect"
	"testing"
)

func TestAnnotationValues(t *testing.T) {
	db := newTestDB(t)

	loc := seedLocation(t, db, Filter{"stain": "dapi"})
	if err := db.InsertLocationAnnotation(loc, "stain", "gfp"); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertLocationAnnotation(loc, "well", "A1"); err != nil {
		t.Fatal(err)
	}
	seedData(t, db, loc, "u1", StorageImage, Filter{"channel": "0"})
	seedData(t, db, loc, "u2", StorageImage, Filter{"channel": "1"})
	// Duplicate (key, value) pair on another item must not duplicate the value.
	if err := db.InsertDataAnnotation("u1", "channel", "1"); err != nil {
		t.Fatal(err)
	}

	locVals, err := db.LocationAnnotationValues()
	if err != nil {
		t.Fatalf("LocationAnnotationValues: %v", err)
	}
	wantLoc := map[string][]string{
		"stain": {"dapi", "gfp"},
		"well":  {"A1"},
	}
	if !reflect.DeepEqual(locVals, wantLoc) {
		t.Errorf("LocationAnnotationValues = %v, want %v", locVals, wantLoc)
	}

	dataVals, err := db.DataAnnotationValues()
	if err != nil {
		t.Fatalf("DataAnnotationValues: %v", err)
	}
	wantData := map[string][]string{"channel": {"0", "1"}}
	if !reflect.DeepEqual(dataVals, wantData) {
		t.Errorf("DataAnnotationValues = %v, want %v", dataVals, wantData)
	}
}

func TestAnnotationValuesEmptyDataset(t *testing.T) {
	db := newTestDB(t)

	vals, err := db.LocationAnnotationValues()
	if err != nil {
		t.Fatalf("LocationAnnotationValues: %v", err)
	}
	if len(vals) != 0 {
		t.Errorf("values = %v, want empty", vals)
	}
}

func TestAnnotationValuesWithCommas(t *testing.T) {
	// Values containing commas must survive listing intact (no string
	// splitting on the aggregation path).
	db := newTestDB(t)
	loc := seedLocation(t, db, Filter{"note": "a,b,c"})
	_ = loc

	vals, err := db.LocationAnnotationValues()
	if err != nil {
		t.Fatalf("LocationAnnotationValues: %v", err)
	}
	if got := vals["note"]; len(got) != 1 || got[0] != "a,b,c" {
		t.Errorf("note values = %v, want [a,b,c] as one value", got)
	}
}
