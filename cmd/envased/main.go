package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"envase-return-backend/config"
	"envase-return-backend/internal/api"
	"envase-return-backend/internal/db"
	"envase-return-backend/internal/devolucion"
	"envase-return-backend/internal/notify"
	"envase-return-backend/internal/receipt"
	"envase-return-backend/internal/session"
	"envase-return-backend/internal/sheets"
	"envase-return-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "envase-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Sheets.SpreadsheetID == "" {
		logger.Fatalf("sheets.spreadsheet_id must be configured")
	}
	if cfg.Writer.ScriptURL == "" {
		logger.Fatalf("writer.script_url must be configured")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("audit store initialized")

	// Catalog service polls the spreadsheet in the background.
	catalogSvc := sheets.NewService(cfg)
	go catalogSvc.Run(ctx)

	sessions := session.NewManager(cfg.Session.TTL, cfg.Session.AdminCode)

	writer := devolucion.NewWriter(&cfg.Writer)

	renderer := receipt.NewChromeRenderer(&cfg.Receipt)
	defer renderer.Close()
	receipts := receipt.NewGenerator(renderer)

	// Receipt delivery worker pool (web push share channel).
	pool := notify.NewWorkerPool(cfg.WorkerPool.Size, appStore, &webpushOptions, cfg.Server.PublicBaseURL)
	pool.Start(ctx)

	// Initialize router
	handler := api.NewHandler(cfg, catalogSvc, sessions, appStore, writer, receipts, pool, &webpushOptions)
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
