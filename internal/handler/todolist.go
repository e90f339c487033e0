package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danprasetia/belanja/internal/auth"
	"github.com/danprasetia/belanja/internal/model"
	"github.com/danprasetia/belanja/internal/shopping"
	"github.com/danprasetia/belanja/internal/store"
	"github.com/danprasetia/belanja/internal/websocket"
)

type TodoListHandler struct {
	listStore   *store.TodoListStore
	taskStore   *store.TaskStore
	sellerStore *store.SellerStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewTodoListHandler(ls *store.TodoListStore, ts *store.TaskStore, ss *store.SellerStore, hub *websocket.Hub, logger *slog.Logger) *TodoListHandler {
	return &TodoListHandler{
		listStore:   ls,
		taskStore:   ts,
		sellerStore: ss,
		hub:         hub,
		logger:      logger,
	}
}

type todoListRequest struct {
	Name string `json:"name"`
}

// ownedList loads the list and checks it belongs to the authenticated user.
// A nil return means a response was already written.
func (h *TodoListHandler) ownedList(w http.ResponseWriter, r *http.Request) *model.TodoList {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	list, err := h.listStore.GetByID(id)
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

func (h *TodoListHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req todoListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := h.listStore.Create(ac.UserID, req.Name)
	if err != nil {
		h.logger.Error("create todo list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTodoList, "created", list.ID, list.ID))
	writeJSON(w, http.StatusCreated, list)
}

func (h *TodoListHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lists, err := h.listStore.ListByUser(ac.UserID)
	if err != nil {
		h.logger.Error("list todo lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list")
		return
	}
	if lists == nil {
		lists = []model.TodoList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *TodoListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	tasks, err := h.taskStore.ListByList(list.ID)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	list.Tasks = tasks
	writeJSON(w, http.StatusOK, list)
}

func (h *TodoListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	var req todoListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.listStore.Rename(list.ID, req.Name)
	if err != nil {
		h.logger.Error("rename todo list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename list")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTodoList, "renamed", list.ID, list.ID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *TodoListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	if err := h.listStore.Delete(list.ID); err != nil {
		h.logger.Error("delete todo list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}

	h.hub.Broadcast(websocket.NewEvent(websocket.EntityTodoList, "deleted", list.ID, list.ID))
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns the grouped seller view with subtotals, grand total, and
// per-task incompleteness flags.
func (h *TodoListHandler) Summary(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
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

	writeJSON(w, http.StatusOK, shopping.Summarize(tasks, sellers))
}

// Export renders the list as shareable plain text. The format query selects
// the layout; it defaults to full.
func (h *TodoListHandler) Export(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	format := shopping.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = shopping.FormatFull
	}
	if !shopping.ValidFormat(format) {
		writeError(w, http.StatusBadRequest, "invalid format")
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

	text := shopping.Serialize(tasks, sellers, format, list.CreatedAt.Format(time.RFC3339))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
