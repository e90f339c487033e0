package store

import (
	"testing"

	"github.com/danprasetia/belanja/internal/database"
	"github.com/danprasetia/belanja/internal/model"
)

func setupSellerTestDB(t *testing.T) (*SellerStore, *TaskStore, *TodoListStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSellerStore(db), NewTaskStore(db), NewTodoListStore(db), NewUserStore(db)
}

func TestSellerCreateAndList(t *testing.T) {
	ss, _, _, _ := setupSellerTestDB(t)

	ss.Create("Toko A")
	ss.Create("Pasar Induk")

	sellers, err := ss.List()
	if err != nil {
		t.Fatalf("list sellers: %v", err)
	}
	if len(sellers) != 2 {
		t.Fatalf("expected 2 sellers, got %d", len(sellers))
	}
	if sellers[0].Name != "Pasar Induk" || sellers[1].Name != "Toko A" {
		t.Errorf("sellers = %v, want name order [Pasar Induk Toko A]", sellers)
	}
}

func TestSellerGetOrCreate(t *testing.T) {
	ss, _, _, _ := setupSellerTestDB(t)

	first, err := ss.GetOrCreate("Toko A")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := ss.GetOrCreate("Toko A")
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}

	sellers, _ := ss.List()
	if len(sellers) != 1 {
		t.Errorf("expected 1 seller, got %d", len(sellers))
	}
}

func TestLatestSellerForItem(t *testing.T) {
	ss, ts, ls, us := setupSellerTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")
	list, _ := ls.Create(u.ID, "Belanja")

	tokoA, _ := ss.Create("Toko A")
	pasar, _ := ss.Create("Pasar Induk")

	item := model.Item{ID: 5, Name: "Gula"}
	ts.Create(list.ID, TaskParams{Item: item, SnapshotSellers: []int64{tokoA.ID}})
	// Later task reassigned twice; the final snapshot entry wins.
	ts.Create(list.ID, TaskParams{Item: item, SnapshotSellers: []int64{tokoA.ID, pasar.ID}})

	got, err := ss.LatestSellerForItem(5)
	if err != nil {
		t.Fatalf("latest seller: %v", err)
	}
	if got == nil || got.ID != pasar.ID {
		t.Errorf("latest seller = %v, want Pasar Induk (%d)", got, pasar.ID)
	}
}

func TestLatestSellerForItemNone(t *testing.T) {
	ss, _, _, _ := setupSellerTestDB(t)

	got, err := ss.LatestSellerForItem(42)
	if err != nil {
		t.Fatalf("latest seller: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
