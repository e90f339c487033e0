package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danprasetia/belanja/internal/auth"
	"github.com/danprasetia/belanja/internal/model"
	"github.com/danprasetia/belanja/internal/shopping"
	"github.com/danprasetia/belanja/internal/store"
	"github.com/danprasetia/belanja/internal/websocket"
)

type TaskHandler struct {
	taskStore   *store.TaskStore
	listStore   *store.TodoListStore
	itemStore   *store.ItemStore
	sellerStore *store.SellerStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, ls *store.TodoListStore, is *store.ItemStore, ss *store.SellerStore, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskStore:   ts,
		listStore:   ls,
		itemStore:   is,
		sellerStore: ss,
		hub:         hub,
		logger:      logger,
	}
}

// taskRequest carries task fields from the client. Quantity and price arrive
// as strings straight from form inputs and are cleaned here, at the boundary.
type taskRequest struct {
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Price    string `json:"price"`
	Seller   string `json:"seller"`
}

// ownedList verifies the list exists and belongs to the authenticated user.
func (h *TaskHandler) ownedList(w http.ResponseWriter, r *http.Request, listID int64) *model.TodoList {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	list, err := h.listStore.GetByID(listID)
	if err != nil {
		h.logger.Error("get todo list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get list")
		return nil
	}
	if list == nil || list.UserID != ac.UserID {
		writeError(w, http.StatusNotFound, "list not found")
		return nil
	}
	return list
}

// ownedTask loads the task and verifies its list belongs to the user.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) *model.Task {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	task, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return nil
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return nil
	}
	if h.ownedList(w, r, task.TodoListID) == nil {
		return nil
	}
	return task
}

// resolveItem turns the request's item reference into a catalog item to copy
// onto the task. A free-text name creates the catalog entry on first use and
// refreshes its current price and unit on later ones.
func (h *TaskHandler) resolveItem(req taskRequest, price int64) (*model.Item, error) {
	if req.ItemID > 0 {
		return h.itemStore.GetByID(req.ItemID)
	}

	item, err := h.itemStore.GetByName(req.ItemName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return h.itemStore.Create(req.ItemName, price, req.Unit)
	}
	return h.itemStore.SetCurrent(item.ID, price, req.Unit)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	list := h.ownedList(w, r, listID)
	if list == nil {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Seller = strings.TrimSpace(req.Seller)
	if req.ItemID == 0 && req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "item is required")
		return
	}

	price := shopping.NormalizePrice(req.Price)
	quantity := shopping.ParseNumber(req.Quantity)

	item, err := h.resolveItem(req, price)
	if err != nil {
		h.logger.Error("resolve item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve item")
		return
	}
	if item == nil {
		writeError(w, http.StatusBadRequest, "item not found")
		return
	}

	params := store.TaskParams{
		Item:     *item,
		Quantity: quantity,
		Unit:     req.Unit,
		Price:    price,
	}

	if req.Seller != "" {
		seller, err := h.sellerStore.GetOrCreate(req.Seller)
		if err != nil {
			h.logger.Error("get or create seller", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to resolve seller")
			return
		}
		params.SnapshotSellers = []int64{seller.ID}
	}

	task, err := h.taskStore.Create(list.ID, params)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTask, "created", task.ID, list.ID))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	task := h.ownedTask(w, r)
	if task == nil {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Seller = strings.TrimSpace(req.Seller)
	if req.ItemID == 0 && req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "item is required")
		return
	}

	price := shopping.NormalizePrice(req.Price)
	quantity := shopping.ParseNumber(req.Quantity)

	item, err := h.resolveItem(req, price)
	if err != nil {
		h.logger.Error("resolve item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve item")
		return
	}
	if item == nil {
		writeError(w, http.StatusBadRequest, "item not found")
		return
	}

	params := store.TaskParams{
		Item:            *item,
		Quantity:        quantity,
		Unit:            req.Unit,
		Price:           price,
		SellerNames:     task.Sellers,
		SnapshotSellers: task.SnapshotSellers,
	}

	// Seller history is append-only: reassignment adds a snapshot entry,
	// it never rewrites earlier ones.
	if req.Seller != "" {
		seller, err := h.sellerStore.GetOrCreate(req.Seller)
		if err != nil {
			h.logger.Error("get or create seller", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to resolve seller")
			return
		}
		n := len(params.SnapshotSellers)
		if n == 0 || params.SnapshotSellers[n-1] != seller.ID {
			params.SnapshotSellers = append(params.SnapshotSellers, seller.ID)
		}
	}

	updated, err := h.taskStore.Update(task.ID, params)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTask, "updated", task.ID, task.TodoListID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	task := h.ownedTask(w, r)
	if task == nil {
		return
	}

	updated, err := h.taskStore.ToggleCompleted(task.ID)
	if err != nil {
		h.logger.Error("toggle task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTask, "toggled", task.ID, task.TodoListID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task := h.ownedTask(w, r)
	if task == nil {
		return
	}

	if err := h.taskStore.Delete(task.ID); err != nil {
		h.logger.Error("delete task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTask, "deleted", task.ID, task.TodoListID))
	w.WriteHeader(http.StatusNoContent)
}

type completeBySellerRequest struct {
	Seller    string `json:"seller"`
	Completed bool   `json:"completed"`
}

// CompleteBySeller marks every task currently resolving to the given seller
// name. Targets are recomputed from live data, so a seller rename between
// render and click hits the renamed group rather than a stale one.
func (h *TaskHandler) CompleteBySeller(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	list := h.ownedList(w, r, listID)
	if list == nil {
		return
	}

	var req completeBySellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Seller == "" {
		writeError(w, http.StatusBadRequest, "seller is required")
		return
	}

	tasks, err := h.taskStore.ListByList(list.ID)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	sellers, err := h.sellerStore.List()
	if err != nil {
		h.logger.Error("list sellers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sellers")
		return
	}

	ids := shopping.SellerTaskIDs(tasks, sellers, req.Seller)
	count, err := h.taskStore.SetCompleted(ids, req.Completed)
	if err != nil {
		h.logger.Error("set completed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update tasks")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTask, "bulk_completed", 0, list.ID))
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}
