package store

import (
	"testing"
	"time"

	"github.com/danprasetia/belanja/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("expires_at should be in the future")
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.UserID != u.ID {
		t.Errorf("session = %v, want user %d", got, u.ID)
	}
}

func TestSessionGetUnknownToken(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	got, err := ss.GetByToken("no-such-token")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionTokensUnique(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")
	a, _ := ss.Create(u.ID)
	b, _ := ss.Create(u.ID)

	if a.Token == b.Token {
		t.Error("two sessions share a token")
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")
	sess, _ := ss.Create(u.ID)

	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, _ := ss.GetByToken(sess.Token)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionUserDeleteCascades(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("budi@example.com", "Budi", "hash")
	sess, _ := ss.Create(u.ID)

	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, _ := ss.GetByToken(sess.Token)
	if got != nil {
		t.Error("expected session gone after user delete")
	}
}
