package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danprasetia/belanja/internal/model"
	"github.com/danprasetia/belanja/internal/shopping"
	"github.com/danprasetia/belanja/internal/store"
	"github.com/danprasetia/belanja/internal/websocket"
)

type ItemHandler struct {
	itemStore   *store.ItemStore
	sellerStore *store.SellerStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewItemHandler(is *store.ItemStore, ss *store.SellerStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemStore:   is,
		sellerStore: ss,
		hub:         hub,
		logger:      logger,
	}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemStore.List()
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type itemRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Unit  string `json:"unit"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.itemStore.GetByName(req.Name)
	if err != nil {
		h.logger.Error("item lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "item already exists")
		return
	}

	item, err := h.itemStore.Create(req.Name, shopping.NormalizePrice(req.Price), req.Unit)
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityItem, "created", item.ID, 0))
	writeJSON(w, http.StatusCreated, item)
}

// Update refreshes an item's current price and unit. Tasks keep the copies
// they took when they were created or last edited.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.itemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := h.itemStore.SetCurrent(id, shopping.NormalizePrice(req.Price), req.Unit)
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityItem, "updated", item.ID, 0))
	writeJSON(w, http.StatusOK, item)
}

// LatestSeller returns the seller most recently assigned to the item on any
// task, for prefilling the seller field when the item is picked.
func (h *ItemHandler) LatestSeller(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	seller, err := h.sellerStore.LatestSellerForItem(id)
	if err != nil {
		h.logger.Error("latest seller for item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to look up seller")
		return
	}
	if seller == nil {
		writeJSON(w, http.StatusOK, map[string]any{"seller": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seller": seller})
}
