package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/scancart/scancart/internal/backup"
	"github.com/scancart/scancart/internal/handler"
	"github.com/scancart/scancart/internal/llm"
	"github.com/scancart/scancart/internal/middleware"
	"github.com/scancart/scancart/internal/product"
	"github.com/scancart/scancart/internal/shopping"
	"github.com/scancart/scancart/internal/storage"
	ws "github.com/scancart/scancart/internal/websocket"
)

// Config carries the optional pieces of the API surface. Zero values
// disable the corresponding feature rather than failing startup.
type Config struct {
	BackupDir        string
	BackupPassphrase string
	Remote           backup.RemoteConfig
	ProductBaseURL   string
	GeminiAPIKey     string
}

type Server struct {
	db       *sql.DB
	hub      *ws.Hub
	state    *shopping.Store
	listH    *handler.ListHandler
	itemH    *handler.ItemHandler
	backupH  *handler.BackupHandler
	productH *handler.ProductHandler
	llmClose func()
	logger   *slog.Logger
}

func New(ctx context.Context, db *sql.DB, cfg Config, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))
	facade := storage.New(db)

	state := shopping.New(facade, logger.With("component", "shopping"), func(entity, action, id string) {
		hub.Broadcast(ws.NewMessage(entity, action, id))
	})

	codec := backup.NewCodec(facade, cfg.BackupDir, cfg.BackupPassphrase, logger.With("component", "backup"))
	var remote *backup.Remote
	if cfg.Remote.Configured() {
		remote = backup.NewRemote(cfg.Remote, logger.With("component", "backup_remote"))
	}

	products := product.NewService(product.Config{BaseURL: cfg.ProductBaseURL})

	var assistant *llm.Assistant
	llmClose := func() {}
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		assistant = llm.NewAssistant(client)
		llmClose = func() { client.Close() }
	}

	return &Server{
		db:       db,
		hub:      hub,
		state:    state,
		listH:    handler.NewListHandler(state, facade, logger.With("component", "list")),
		itemH:    handler.NewItemHandler(state, logger.With("component", "item")),
		backupH:  handler.NewBackupHandler(codec, remote, state, logger.With("component", "backup_handler")),
		productH: handler.NewProductHandler(products, assistant, logger.With("component", "product")),
		llmClose: llmClose,
		logger:   logger,
	}, nil
}

// Initialize seeds storage and loads the in-memory list state. Call once
// before serving.
func (s *Server) Initialize() {
	s.state.Initialize()
}

// State exposes the shopping state store for CLI commands that share a
// server instance.
func (s *Server) State() *shopping.Store {
	return s.state
}

// Close releases resources not owned by the caller.
func (s *Server) Close() {
	s.llmClose()
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// List API routes
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Rename)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/lists/current", s.listH.Current)
	mux.HandleFunc("PUT /api/lists/current", s.listH.SetCurrent)
	mux.HandleFunc("GET /api/categories", s.listH.Categories)
	mux.HandleFunc("GET /api/items/search", s.listH.Search)
	mux.HandleFunc("POST /api/reset", s.listH.Reset)

	// Item API routes
	mux.HandleFunc("POST /api/items", s.itemH.CreateInCurrent)
	mux.HandleFunc("POST /api/lists/{list_id}/items", s.itemH.CreateInList)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("POST /api/items/{id}/toggle", s.itemH.Toggle)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Backup API routes
	mux.HandleFunc("POST /api/backups", s.backupH.Create)
	mux.HandleFunc("POST /api/backups/restore", s.backupH.Restore)

	// Product and AI routes
	mux.HandleFunc("GET /api/products/{barcode}", s.productH.Lookup)
	mux.HandleFunc("POST /api/scan/list", s.productH.ScanList)
	mux.HandleFunc("POST /api/scan/barcode", s.productH.ScanBarcode)
	mux.HandleFunc("POST /api/recipes", s.productH.GenerateRecipe)

	// WebSocket change feed
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
