package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danprasetia/belanja/internal/backup"
	"github.com/danprasetia/belanja/internal/handler"
	"github.com/danprasetia/belanja/internal/middleware"
	"github.com/danprasetia/belanja/internal/store"
	ws "github.com/danprasetia/belanja/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	todoListH    *handler.TodoListHandler
	taskH        *handler.TaskHandler
	sellerH      *handler.SellerHandler
	itemH        *handler.ItemHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	backupMgr    *backup.Manager
	logger       *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	backupMgr := backup.NewManager(backupCfg, db, func(st backup.Status) {
		hub.Broadcast(ws.NewEvent("backup", string(st.State), 0, 0))
	}, logger.With("component", "backup"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewTodoListStore(db)
	taskStore := store.NewTaskStore(db)
	sellerStore := store.NewSellerStore(db)
	itemStore := store.NewItemStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		todoListH:    handler.NewTodoListHandler(listStore, taskStore, sellerStore, hub, logger.With("component", "todo_list")),
		taskH:        handler.NewTaskHandler(taskStore, listStore, itemStore, sellerStore, hub, logger.With("component", "task")),
		sellerH:      handler.NewSellerHandler(sellerStore, hub, logger.With("component", "seller")),
		itemH:        handler.NewItemHandler(itemStore, sellerStore, hub, logger.With("component", "item")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		backupMgr:    backupMgr,
		logger:       logger,
	}
}

// BackupManager returns the backup manager so main can run its schedule.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupMgr
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes behind the session check
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /me", s.authH.Me)

	// Todo list API routes
	mux.HandleFunc("POST /api/todo-lists", s.todoListH.Create)
	mux.HandleFunc("GET /api/todo-lists", s.todoListH.List)
	mux.HandleFunc("GET /api/todo-lists/{id}", s.todoListH.Get)
	mux.HandleFunc("PUT /api/todo-lists/{id}", s.todoListH.Rename)
	mux.HandleFunc("DELETE /api/todo-lists/{id}", s.todoListH.Delete)
	mux.HandleFunc("GET /api/todo-lists/{id}/summary", s.todoListH.Summary)
	mux.HandleFunc("GET /api/todo-lists/{id}/export", s.todoListH.Export)

	// Task API routes
	mux.HandleFunc("POST /api/todo-lists/{id}/tasks", s.taskH.Create)
	mux.HandleFunc("POST /api/todo-lists/{id}/tasks/bulk-complete", s.taskH.CompleteBySeller)
	mux.HandleFunc("PUT /api/todo-lists/{list_id}/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/todo-lists/{list_id}/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/todo-lists/{list_id}/tasks/{id}/complete", s.taskH.Toggle)

	// Seller API routes
	mux.HandleFunc("GET /api/sellers", s.sellerH.List)
	mux.HandleFunc("POST /api/sellers", s.sellerH.Create)
	mux.HandleFunc("DELETE /api/sellers/{id}", s.sellerH.Delete)

	// Item catalog API routes
	mux.HandleFunc("GET /api/items", s.itemH.List)
	mux.HandleFunc("POST /api/items", s.itemH.Create)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("GET /api/items/{id}/latest-seller", s.itemH.LatestSeller)

	// Backup API routes
	mux.HandleFunc("GET /api/backup/status", s.backupStatusHandler)
	mux.HandleFunc("POST /api/backup/run", s.backupRunHandler)

	// Live sync
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
}

func (s *Server) backupStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.backupMgr.Status())
}

func (s *Server) backupRunHandler(w http.ResponseWriter, r *http.Request) {
	if !s.backupMgr.Enabled() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "backup not configured"})
		return
	}
	if err := s.backupMgr.RunNow(r.Context()); err != nil {
		s.logger.Error("manual backup", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "backup failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.backupMgr.Status())
}
