package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docdesk/internal/config"
	"docdesk/internal/handler"
	"docdesk/internal/middleware"
	"docdesk/internal/repository/memory"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	seedDir := flag.String("seed", "", "Import .md/.rst files from this directory at startup (subdirectories become folders)")
	flag.Parse()

	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "docserver", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	store := memory.NewStore()
	docRepo := memory.NewDocumentRepository(store)
	folderRepo := memory.NewFolderRepository(store)

	if *seedDir != "" {
		if _, err := memory.Seed(context.Background(), os.DirFS(*seedDir), docRepo, folderRepo, logger); err != nil {
			log.Fatalf("Failed to seed from %s: %v", *seedDir, err)
		}
	}

	var h http.Handler = handler.NewRouter(docRepo, folderRepo, logger)

	// CORS wraps everything so OPTIONS pre-flight never reaches the routes
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
