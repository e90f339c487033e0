package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danprasetia/belanja/internal/model"
	"github.com/danprasetia/belanja/internal/store"
	"github.com/danprasetia/belanja/internal/websocket"
)

type SellerHandler struct {
	sellerStore *store.SellerStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewSellerHandler(ss *store.SellerStore, hub *websocket.Hub, logger *slog.Logger) *SellerHandler {
	return &SellerHandler{
		sellerStore: ss,
		hub:         hub,
		logger:      logger,
	}
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellerStore.List()
	if err != nil {
		h.logger.Error("list sellers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sellers")
		return
	}
	if sellers == nil {
		sellers = []model.Seller{}
	}
	writeJSON(w, http.StatusOK, sellers)
}

type sellerRequest struct {
	Name string `json:"name"`
}

func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.sellerStore.GetByName(req.Name)
	if err != nil {
		h.logger.Error("seller lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create seller")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "seller already exists")
		return
	}

	seller, err := h.sellerStore.Create(req.Name)
	if err != nil {
		h.logger.Error("create seller", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create seller")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntitySeller, "created", seller.ID, 0))
	writeJSON(w, http.StatusCreated, seller)
}

// Delete removes a seller from the registry. Tasks that snapshotted it keep
// the id and show up as "ID:<n>" until reassigned.
func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	seller, err := h.sellerStore.GetByID(id)
	if err != nil {
		h.logger.Error("get seller", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get seller")
		return
	}
	if seller == nil {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}

	if err := h.sellerStore.Delete(id); err != nil {
		h.logger.Error("delete seller", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete seller")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntitySeller, "deleted", id, 0))
	w.WriteHeader(http.StatusNoContent)
}
