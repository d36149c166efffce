package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/va6996/mountvacation-mcp/bootstrap"
	"github.com/va6996/mountvacation-mcp/config"
	"github.com/va6996/mountvacation-mcp/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const cleanupInterval = 10 * time.Minute

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Initialize logging
	log.Init()

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 0. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	if err := log.Configure(cfg.LogLevel); err != nil {
		log.Warnf(context.Background(), "Ignoring LOG_LEVEL: %v", err)
	}

	// 1. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}
	defer app.Close()
	app.StartCleanup(ctx, cleanupInterval)

	// 2. Serve
	switch cfg.Server.Transport {
	case "http":
		serveHTTP(ctx, app, cfg.Server.Port)
	default:
		log.Infof(context.Background(), "Serving MCP over stdio")
		if err := server.ServeStdio(app.MCPServer); err != nil {
			log.Errorf(context.Background(), "Stdio server stopped: %v", err)
		}
	}
}

func serveHTTP(ctx context.Context, app *bootstrap.App, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: newHandler(app),
	}

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof(context.Background(), "Starting MCP server on port %s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf(context.Background(), "Server failed: %v", err)
	}
}

// newHandler mounts the streamable MCP endpoint and a health check behind CORS and h2c.
func newHandler(app *bootstrap.App) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(app.MCPServer))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":  "ok",
			"version": bootstrap.Version,
			"tools":   app.Registry.Names(),
			"cache":   app.Config.Cache.Backend,
		}
		code := http.StatusOK
		if err := app.Cache.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	})

	// Use h2c for HTTP/2 without TLS (common for dev and internal services)
	return h2c.NewHandler(corsHandler(mux), &http2.Server{})
}

// Simple CORS middleware
func corsHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Mcp-Session-Id, Mcp-Protocol-Version")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
