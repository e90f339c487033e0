package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danprasetia/belanja/internal/model"
)

func newSellerHandler(t *testing.T) (*SellerHandler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewSellerHandler(env.sellerStore, env.hub, env.logger), env
}

func TestCreateSeller(t *testing.T) {
	h, _ := newSellerHandler(t)

	req := httptest.NewRequest("POST", "/api/sellers", strings.NewReader(`{"name":"Toko A"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/sellers", strings.NewReader(`{"name":"Toko A"}`)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestDeleteSellerKeepsSnapshots(t *testing.T) {
	h, env := newSellerHandler(t)
	userID := env.createUser(t, "budi@example.com")
	list, _ := env.listStore.Create(userID, "Belanja")
	seller, _ := env.sellerStore.Create("Toko Tutup")
	mustCreateTask(t, env, list.ID, "Beras", 1, "kg", 12000, seller.ID)

	req := httptest.NewRequest("DELETE", "/api/sellers/1", nil)
	req.SetPathValue("id", strconv.FormatInt(seller.ID, 10))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	tasks, err := env.taskStore.ListByList(list.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks[0].SnapshotSellers) != 1 || tasks[0].SnapshotSellers[0] != seller.ID {
		t.Errorf("snapshot sellers = %v, want the deleted id kept", tasks[0].SnapshotSellers)
	}
}

func TestItemLatestSeller(t *testing.T) {
	env := newTestEnv(t)
	h := NewItemHandler(env.itemStore, env.sellerStore, env.hub, env.logger)
	userID := env.createUser(t, "budi@example.com")
	list, _ := env.listStore.Create(userID, "Belanja")

	item, _ := env.itemStore.Create("Beras", 12000, "kg")
	seller, _ := env.sellerStore.Create("Toko A")

	params := taskParamsForItem(*item, seller.ID)
	if _, err := env.taskStore.Create(list.ID, params); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/items/1/latest-seller", nil)
	req.SetPathValue("id", strconv.FormatInt(item.ID, 10))
	rec := httptest.NewRecorder()
	h.LatestSeller(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Seller *model.Seller `json:"seller"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Seller == nil || resp.Seller.Name != "Toko A" {
		t.Errorf("seller = %+v, want Toko A", resp.Seller)
	}
}

func TestItemLatestSellerNone(t *testing.T) {
	env := newTestEnv(t)
	h := NewItemHandler(env.itemStore, env.sellerStore, env.hub, env.logger)
	item, _ := env.itemStore.Create("Beras", 12000, "kg")

	req := httptest.NewRequest("GET", "/api/items/1/latest-seller", nil)
	req.SetPathValue("id", strconv.FormatInt(item.ID, 10))
	rec := httptest.NewRecorder()
	h.LatestSeller(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Seller *model.Seller `json:"seller"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Seller != nil {
		t.Errorf("seller = %+v, want nil", resp.Seller)
	}
}
