package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/moviedesk/moviedesk/internal/catalog"
	"github.com/moviedesk/moviedesk/internal/handlers"
	"github.com/moviedesk/moviedesk/internal/logger"
	"github.com/moviedesk/moviedesk/internal/store"
	"github.com/moviedesk/moviedesk/internal/watchlist"
	"github.com/moviedesk/moviedesk/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const defaultPort = "8080"

func main() {
	slog.SetDefault(logger.New(slog.LevelDebug))
	if err := run(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	dbPath := envOr("DB_PATH", "/app/data/moviedesk.db")
	baseURL := os.Getenv("CATALOG_BASE_URL")
	token := os.Getenv("CATALOG_API_TOKEN")
	password := os.Getenv("APP_PASSWORD")
	if baseURL == "" {
		return errors.New("CATALOG_BASE_URL is required")
	}
	if password == "" {
		return errors.New("APP_PASSWORD is required")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close DB", logger.Error(err))
		}
	}()

	client := catalog.New(baseURL, token)

	app, err := handlers.New(&handlers.Config{
		Store:     st,
		Catalog:   client,
		Watchlist: watchlist.New(st, client),
		Password:  password,
		Logger:    slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
		Level:         slog.LevelInfo,
		RecoverPanics: true,
	}))
	r.Use(cors.Handler(corsOptions()))

	app.RegisterRoutes(r)

	dist, err := web.Dist()
	if err != nil {
		return fmt.Errorf("failed to load embedded frontend: %w", err)
	}
	spa, err := handlers.SPA(dist)
	if err != nil {
		return err
	}
	r.NotFound(spa.ServeHTTP)

	addr := ":" + envOr("PORT", defaultPort)
	slog.Info("listening", slog.String("addr", addr))
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// corsOptions allows any origin by default but without credentials, since
// browsers reject credentialed responses under a wildcard origin and the
// embedded SPA is same-origin anyway. Cross-origin cookie access needs
// concrete origins in CORS_ORIGINS (comma separated).
func corsOptions() cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			opts.AllowedOrigins = append(opts.AllowedOrigins, o)
		}
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
		return opts
	}
	opts.AllowCredentials = true
	return opts
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
