package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/travelmate/internal/handlers"
	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/service"
	"github.com/diagnosis/travelmate/internal/storage"
	"github.com/diagnosis/travelmate/pkg/config"
	"github.com/diagnosis/travelmate/pkg/database"
	"github.com/diagnosis/travelmate/pkg/events"
	"github.com/diagnosis/travelmate/pkg/logger"
	mw "github.com/diagnosis/travelmate/pkg/middleware"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Connect to MongoDB
	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	store := repository.NewMongoStore(db)

	// Redis backs rate limiting and idempotent replays; the API runs without them.
	var limits handlers.Limits
	if rdb, err := database.ConnectRedis(ctx, cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, rate limiting and idempotency disabled", "error", err)
	} else {
		defer rdb.Close()
		limits.RateLimiter = repository.NewRateLimitRepository(rdb)
		limits.Idempotency = repository.NewIdempotencyRepository(rdb)
	}

	// Events only feed the notify worker, so a missing NATS is not fatal.
	var publisher events.Publisher = events.NopPublisher{}
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL, "travelmate-api"); err != nil {
		logger.Warn("NATS unavailable, events will be dropped", "error", err)
	} else {
		defer bus.Close()
		publisher = bus
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialise storage", "error", err)
		os.Exit(1)
	}

	services := service.New(store, files, mailer.New(cfg.Email), publisher, cfg)
	h := handlers.New(services, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("travelmate-api"))
	r.Use(mw.Logging)
	r.Use(mw.CORS(cfg.CORS.AllowedOrigins))
	r.Use(mw.Health)

	h.Routes(r, limits)

	if local, ok := files.(*storage.LocalStore); ok {
		mountPublicFiles(r, cfg.Storage.PublicBaseURL, local.Root())
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API error", "error", err)
		os.Exit(1)
	}
}

// mountPublicFiles serves locally stored uploads under the path part of baseURL.
func mountPublicFiles(r chi.Router, baseURL, root string) {
	prefix := "/public"
	if i := strings.Index(baseURL, "://"); i >= 0 {
		if j := strings.Index(baseURL[i+3:], "/"); j >= 0 {
			prefix = strings.TrimRight(baseURL[i+3+j:], "/")
		}
	}
	if prefix == "" {
		prefix = "/public"
	}

	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.Get(prefix+"/*", fs.ServeHTTP)
	logger.Info("Serving local uploads", "path", prefix, "dir", root)
}
