package index

import (
	"errors"
	"testing"
)

func TestInsertLocationMonotonic(t *testing.T) {
	db := newTestDB(t)

	first, err := db.InsertLocation()
	if err != nil {
		t.Fatalf("InsertLocation: %v", err)
	}
	second, err := db.InsertLocation()
	if err != nil {
		t.Fatalf("InsertLocation: %v", err)
	}
	if second <= first {
		t.Errorf("ids not monotonically increasing: %d then %d", first, second)
	}
}

func TestInsertAnnotationKeyInterns(t *testing.T) {
	db := newTestDB(t)

	id1, err := db.InsertAnnotationKey("stain")
	if err != nil {
		t.Fatalf("InsertAnnotationKey: %v", err)
	}
	id2, err := db.InsertAnnotationKey("stain")
	if err != nil {
		t.Fatalf("InsertAnnotationKey (repeat): %v", err)
	}
	if id1 != id2 {
		t.Errorf("same name interned twice: %d vs %d", id1, id2)
	}

	other, err := db.InsertAnnotationKey("channel")
	if err != nil {
		t.Fatalf("InsertAnnotationKey: %v", err)
	}
	if other == id1 {
		t.Errorf("distinct names share id %d", id1)
	}
}

func TestInsertDataErrors(t *testing.T) {
	db := newTestDB(t)
	loc, err := db.InsertLocation()
	if err != nil {
		t.Fatalf("InsertLocation: %v", err)
	}

	t.Run("unknown storage type", func(t *testing.T) {
		_, err := db.InsertData(loc, "u1", "hologram", "")
		if !errors.Is(err, ErrUnknownStorageType) {
			t.Errorf("err = %v, want ErrUnknownStorageType", err)
		}
	})

	t.Run("missing location", func(t *testing.T) {
		_, err := db.InsertData(loc+999, "u1", StorageImage, "")
		if !errors.Is(err, ErrMissingEntity) {
			t.Errorf("err = %v, want ErrMissingEntity", err)
		}
	})

	t.Run("duplicate URI", func(t *testing.T) {
		if _, err := db.InsertData(loc, "u1", StorageImage, ""); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
		_, err := db.InsertData(loc, "u1", StorageTable, "")
		if !errors.Is(err, ErrDuplicateURI) {
			t.Errorf("err = %v, want ErrDuplicateURI", err)
		}
	})
}

func TestAnnotateMissingEntities(t *testing.T) {
	db := newTestDB(t)

	if err := db.InsertLocationAnnotation(42, "stain", "dapi"); !errors.Is(err, ErrMissingEntity) {
		t.Errorf("location err = %v, want ErrMissingEntity", err)
	}
	if err := db.InsertDataAnnotation("ghost", "channel", "0"); !errors.Is(err, ErrMissingEntity) {
		t.Errorf("data err = %v, want ErrMissingEntity", err)
	}
}

func TestDeleteDataRemovesAnnotations(t *testing.T) {
	db := newTestDB(t)
	loc, _ := db.InsertLocation()
	if _, err := db.InsertData(loc, "u1", StorageImage, ""); err != nil {
		t.Fatalf("InsertData: %v", err)
	}
	if err := db.InsertDataAnnotation("u1", "channel", "0"); err != nil {
		t.Fatalf("InsertDataAnnotation: %v", err)
	}

	if err := db.DeleteData("u1"); err != nil {
		t.Fatalf("DeleteData: %v", err)
	}

	var n int
	if err := db.DB().QueryRow(`SELECT COUNT(1) FROM data`).Scan(&n); err != nil || n != 0 {
		t.Errorf("data rows = %d (err %v), want 0", n, err)
	}
	if err := db.DB().QueryRow(`SELECT COUNT(1) FROM data_annotation`).Scan(&n); err != nil || n != 0 {
		t.Errorf("data_annotation rows = %d (err %v), want 0", n, err)
	}

	// The URI must be reusable after deletion.
	if _, err := db.InsertData(loc, "u1", StorageImage, ""); err != nil {
		t.Errorf("reusing URI after delete: %v", err)
	}
}

func TestDeleteDataMissing(t *testing.T) {
	db := newTestDB(t)
	if err := db.DeleteData("ghost"); !errors.Is(err, ErrMissingEntity) {
		t.Errorf("err = %v, want ErrMissingEntity", err)
	}
}
