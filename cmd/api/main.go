package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite"

	"github.com/redmonkez12/qrprofile/internal/config"
	"github.com/redmonkez12/qrprofile/internal/database"
	httpServer "github.com/redmonkez12/qrprofile/internal/http"
	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/share"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
	)

	// Initialize profile store
	store, closeStore, err := initStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize profile store: %w", err)
	}
	defer closeStore()

	// Initialize the optional Redis payload cache
	var cache share.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := initRedis(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()
		cache = share.NewRedisCache(redisClient, cfg.QR.CacheTTL)
	} else {
		logger.Info("redis not configured, qr payload cache disabled")
	}

	// Initialize services
	profileService := profile.NewService(store, logger)
	pipeline := share.NewPipeline(cfg.QR.ErrorLevel(), cfg.QR.ModuleSize, cache, logger)

	// Initialize HTTP handlers
	profileHandler := profile.NewHandler(profileService)
	shareHandler := share.NewHandler(pipeline, profileService)

	// Initialize router
	router := httpServer.NewRouter(cfg, profileHandler, shareHandler, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStore returns the profile store selected by the driver and a function
// releasing its resources.
func initStore(cfg config.DatabaseConfig) (profile.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		return profile.NewDirectory(), func() {}, nil
	}

	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return profile.NewRepository(db), func() { db.Close() }, nil
}

// initDB opens the SQL database and makes sure the schema exists
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dsn := cfg.ConnectionString()
	if cfg.Driver == config.DriverSQLite {
		dsn = cfg.SQLiteDSN()
	}

	db, err := database.Open(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := database.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
