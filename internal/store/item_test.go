package store

import (
	"testing"

	"github.com/danprasetia/belanja/internal/database"
)

func setupItemTestDB(t *testing.T) *ItemStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemStore(db)
}

func TestItemCreateAndGet(t *testing.T) {
	is := setupItemTestDB(t)

	item, err := is.Create("Gula", 15000, "kg")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.CurrentPrice != 15000 || item.CurrentUnit != "kg" {
		t.Errorf("item = %+v, want price 15000 unit kg", item)
	}

	byName, err := is.GetByName("Gula")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName == nil || byName.ID != item.ID {
		t.Errorf("get by name = %v, want id %d", byName, item.ID)
	}
}

func TestItemSetCurrent(t *testing.T) {
	is := setupItemTestDB(t)

	item, _ := is.Create("Gula", 15000, "kg")

	updated, err := is.SetCurrent(item.ID, 17000, "kg")
	if err != nil {
		t.Fatalf("set current: %v", err)
	}
	if updated.CurrentPrice != 17000 {
		t.Errorf("current price = %d, want 17000", updated.CurrentPrice)
	}
}

func TestItemListSorted(t *testing.T) {
	is := setupItemTestDB(t)

	is.Create("Minyak", 18000, "liter")
	is.Create("Beras", 60000, "kg")

	items, err := is.List()
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Beras" || items[1].Name != "Minyak" {
		t.Errorf("items = %v, want [Beras Minyak]", items)
	}
}

func TestItemGetByIDNotFound(t *testing.T) {
	is := setupItemTestDB(t)

	got, err := is.GetByID(9999)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent item")
	}
}
