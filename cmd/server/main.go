// Package main is the entry point for the claimsdesk API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"claimsdesk/internal/domain/auth"
	"claimsdesk/internal/domain/claimtypes"
	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/domain/insurerdocs"
	"claimsdesk/internal/domain/insurers"
	"claimsdesk/internal/domain/users"
	"claimsdesk/internal/infrastructure/cache"
	v1 "claimsdesk/internal/infrastructure/http/v1"
	"claimsdesk/internal/infrastructure/notify"
	"claimsdesk/internal/infrastructure/storage/postgres"
	"claimsdesk/internal/infrastructure/storage/postgres/auth_repo"
	"claimsdesk/internal/infrastructure/storage/postgres/catalog_repo"
	"claimsdesk/internal/infrastructure/storage/postgres/layout_repo"
	"claimsdesk/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting claimsdesk server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	statsCtx, stopStats := context.WithCancel(logger.WithLogger(ctx, log))
	defer stopStats()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
				postgres.LogPoolStats(statsCtx, pool.Pool)
			}
		}
	}()

	// --- Cache ---
	cacheCfg := cache.DefaultConfig()
	if ttl := getEnvDuration("CACHE_TTL", 0); ttl > 0 {
		cacheCfg.TTL = ttl
	}
	store := cache.NewStore(cacheCfg)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Security lock ---
	lockCfg := users.DefaultSecurityLockConfig()
	lockCfg.Enabled = getEnv("SECURITY_LOCK_ENABLED", "true") == "true"
	if n := getEnvInt("SECURITY_LOCK_MAX_ATTEMPTS", 0); n > 0 {
		lockCfg.MaximumAttempts = n
	}
	if d := getEnvDuration("SECURITY_LOCK_LENGTH", 0); d > 0 {
		lockCfg.LockLength = d
	}
	if d := getEnvDuration("SECURITY_LOCK_TIME_FRAME", 0); d > 0 {
		lockCfg.TimeFrame = d
	}

	// --- Services ---
	notifier := notify.NewLogNotifier(log)
	userService := users.NewService(
		auth_repo.NewUserRepo(txManager),
		store,
		txManager,
		users.NewBcryptHasher(),
		notifier,
		lockCfg,
	)

	claimTypeService := claimtypes.NewService(catalog_repo.NewClaimTypeRepo(txManager), store)
	insurerService := insurers.NewService(catalog_repo.NewInsurerRepo(txManager), store, txManager)
	documentService := documents.NewService(catalog_repo.NewDocumentRepo(txManager), store, txManager)

	collageDocService := collages.NewDocumentService(layout_repo.NewCollageDocRepo(txManager), store, txManager)
	collageService := collages.NewService(
		layout_repo.NewCollageRepo(txManager),
		store,
		txManager,
		claimTypeService,
		collageDocService,
	)

	insurerDocService := insurerdocs.NewService(
		layout_repo.NewInsurerDocRepo(txManager),
		store,
		txManager,
		documentService,
	)

	exportService := exports.NewService(
		layout_repo.NewExportDocRepo(txManager),
		catalog_repo.NewExportTypeRepo(txManager),
		store,
		txManager,
		documentService,
		collageService,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		JWTValidator: jwtService,
		JWTService:   jwtService,
		Users:        userService,
		ClaimTypes:   claimTypeService,
		Insurers:     insurerService,
		Documents:    documentService,
		InsurerDocs:  insurerDocService,
		Collages:     collageService,
		Exports:      exportService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
