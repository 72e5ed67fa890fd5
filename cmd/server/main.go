package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/canvasdraw/editor/backend-go/internal/auth"
	"github.com/canvasdraw/editor/backend-go/internal/collab"
	"github.com/canvasdraw/editor/backend-go/internal/config"
	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/drawing"
	"github.com/canvasdraw/editor/backend-go/internal/editor"
	"github.com/canvasdraw/editor/backend-go/internal/export"
	mw "github.com/canvasdraw/editor/backend-go/internal/middleware"
	"github.com/canvasdraw/editor/backend-go/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.DatabaseURL == "" {
		slog.Info("using sqlite store", "path", cfg.SQLitePath)
	}

	authService := auth.NewService(db, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(db, cfg.CanvasWidth, cfg.CanvasHeight)
	drawingHandler := drawing.NewHandler(drawingService)

	// The playground drawing is kept in memory for as long as someone has
	// it open.
	docLoader := func(ctx context.Context, drawingID string) (document.Record, error) {
		if drawingID == drawing.PlaygroundID {
			return document.NewSampleDocument("Playground"), nil
		}
		return drawingService.LoadDocument(ctx, drawingID)
	}
	docSaver := func(ctx context.Context, drawingID string, doc document.Record) error {
		if drawingID == drawing.PlaygroundID {
			return nil
		}
		_, err := drawingService.StoreDocument(ctx, drawingID, doc)
		return err
	}

	hub := collab.NewHub(collab.HubOptions{
		Loader: docLoader,
		Saver:  docSaver,
		Session: editor.Config{
			Width:       float64(cfg.CanvasWidth),
			Height:      float64(cfg.CanvasHeight),
			GridSpacing: cfg.GridSpacing,
			GridEnabled: true,
		},
		Autosave: time.Duration(cfg.AutosaveSeconds) * time.Second,
	})
	go hub.Run()

	exportHandler := export.NewHandler(drawingService, cfg.FontPath, cfg.FontSize, cfg.CanvasWidth, cfg.CanvasHeight)

	origins := mw.SplitOrigins(cfg.AllowedOrigins)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Export of a posted document (public, used by the playground)
	r.HandleFunc("/export/{format}", exportHandler.ExportDocument).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.List).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/document", drawingHandler.GetDocument).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/document", drawingHandler.PutDocument).Methods("PUT")
	api.HandleFunc("/drawings/{drawingId}/export/{format}", exportHandler.ExportDrawing).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/drawing/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, drawingService, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all edited drawings
		slog.Info("saving all drawings...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, drawings *drawing.Service, origins []string) {
	drawingID := mux.Vars(r)["drawingId"]

	var userID string
	var displayName string

	if drawingID == drawing.PlaygroundID {
		// Anonymous user for playground
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		token, err := auth.TokenFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if _, err := drawings.Get(r.Context(), drawingID, userID); err != nil {
			switch {
			case errors.Is(err, drawing.ErrNotFound):
				http.Error(w, "drawing not found", http.StatusNotFound)
			case errors.Is(err, drawing.ErrForbidden):
				http.Error(w, "not the drawing owner", http.StatusForbidden)
			default:
				slog.Error("load drawing", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, drawingID, clientID)

	if err := hub.Register(client); err != nil {
		slog.Error("join drawing", "drawing", drawingID, "error", err)
		conn.Close(websocket.StatusInternalError, "could not open drawing")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originHosts turns allowed origins into the host patterns the websocket
// upgrade matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			hosts = append(hosts, "*")
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
