package store

import (
	"testing"

	"github.com/danprasetia/belanja/internal/database"
)

func setupTodoListTestDB(t *testing.T) (*TodoListStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTodoListStore(db), NewUserStore(db)
}

func TestTodoListCRUD(t *testing.T) {
	ls, us := setupTodoListTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")

	list, err := ls.Create(u.ID, "Belanja Mingguan")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if list.Name != "Belanja Mingguan" {
		t.Errorf("name = %q, want %q", list.Name, "Belanja Mingguan")
	}
	if list.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", list.UserID, u.ID)
	}

	renamed, err := ls.Rename(list.ID, "Belanja Bulanan")
	if err != nil {
		t.Fatalf("rename list: %v", err)
	}
	if renamed.Name != "Belanja Bulanan" {
		t.Errorf("renamed = %q, want %q", renamed.Name, "Belanja Bulanan")
	}

	if err := ls.Delete(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err := ls.GetByID(list.ID)
	if err != nil {
		t.Fatalf("get deleted list: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted list")
	}
}

func TestTodoListListByUser(t *testing.T) {
	ls, us := setupTodoListTestDB(t)

	budi, _ := us.Create("budi@example.com", "Budi", "hash")
	sari, _ := us.Create("sari@example.com", "Sari", "hash")

	ls.Create(budi.ID, "Mingguan")
	ls.Create(budi.ID, "Bulanan")
	ls.Create(sari.ID, "Dapur")

	lists, err := ls.ListByUser(budi.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	for _, l := range lists {
		if l.UserID != budi.ID {
			t.Errorf("list %d belongs to user %d, want %d", l.ID, l.UserID, budi.ID)
		}
	}
}
