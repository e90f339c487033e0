package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danprasetia/belanja/internal/auth"
	"github.com/danprasetia/belanja/internal/database"
	"github.com/danprasetia/belanja/internal/model"
	"github.com/danprasetia/belanja/internal/store"
	"github.com/danprasetia/belanja/internal/websocket"
)

type testEnv struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	listStore    *store.TodoListStore
	taskStore    *store.TaskStore
	sellerStore  *store.SellerStore
	itemStore    *store.ItemStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		userStore:    store.NewUserStore(db),
		sessionStore: store.NewSessionStore(db),
		listStore:    store.NewTodoListStore(db),
		taskStore:    store.NewTaskStore(db),
		sellerStore:  store.NewSellerStore(db),
		itemStore:    store.NewItemStore(db),
		hub:          websocket.NewHub(slog.Default()),
		logger:       slog.Default(),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) int64 {
	t.Helper()
	u, err := e.userStore.Create(email, "Test", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

// authed attaches an AuthContext for the given user to the request.
func authed(r *http.Request, userID int64) *http.Request {
	ctx := auth.WithAuth(context.Background(), auth.AuthContext{UserID: userID, SessionID: 1})
	return r.WithContext(ctx)
}

func taskParamsForItem(item model.Item, sellerID int64) store.TaskParams {
	return store.TaskParams{
		Item:            item,
		Quantity:        1,
		Unit:            item.CurrentUnit,
		Price:           item.CurrentPrice,
		SnapshotSellers: []int64{sellerID},
	}
}
