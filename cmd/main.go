package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dkotenko/user-accounts/internal/handlers"
	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/mailer"
	"github.com/dkotenko/user-accounts/internal/middlewares"
	"github.com/dkotenko/user-accounts/internal/repositories"
	"github.com/dkotenko/user-accounts/internal/services"
	"github.com/dkotenko/user-accounts/internal/sessions"
	"github.com/dkotenko/user-accounts/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title user-accounts API
// @version 1.0.0
// @description REST backend for user accounts: registration with e-mail activation, bearer-token sessions, password reset and profile images
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds all application settings.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost     string
	redisPort     int
	redisDB       int
	redisPassword string

	kafkaBrokers []string
	kafkaTopic   string

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioBucket    string
	minioUseSSL    bool

	cleanupInterval time.Duration
}

// parseConfig loads environment variables from a file and returns the
// application configuration with defaults applied.
func parseConfig(path string) (config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var cfg config
	var err error

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "accounts")
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return cfg, err
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return cfg, err
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return cfg, err
	}

	// Redis config (session token store)
	cfg.redisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return cfg, err
	}
	if cfg.redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return cfg, err
	}
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config (mail outbox)
	cfg.kafkaBrokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	cfg.kafkaTopic = getEnv("KAFKA_MAIL_TOPIC", "account-mail")

	// MinIO config (profile images)
	cfg.minioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.minioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	cfg.minioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	cfg.minioBucket = getEnv("MINIO_BUCKET", "profile-images")
	cfg.minioUseSSL = getEnv("MINIO_USE_SSL", "false") == "true"

	// Session cleanup config
	if cfg.cleanupInterval, err = time.ParseDuration(getEnv("SESSION_CLEANUP_INTERVAL", "1h")); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka, MinIO and the
// HTTP server. It wires routes, starts the session cleaner and handles
// graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.pgHost, cfg.pgPort)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Mail outbox
	mail := mailer.NewKafkaMailer(cfg.kafkaBrokers, cfg.kafkaTopic)
	defer mail.Close()

	// Profile image storage
	images, err := storage.NewMinioStorage(cfg.minioEndpoint, cfg.minioAccessKey, cfg.minioSecretKey, cfg.minioBucket, cfg.minioUseSSL)
	if err != nil {
		return fmt.Errorf("MinIO client error: %w", err)
	}
	if err := images.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("MinIO bucket error: %w", err)
	}

	// Session token store and cleanup
	tokenStore := sessions.NewStore(rdb)
	cleaner := sessions.NewCleaner(tokenStore, cfg.cleanupInterval)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)

	// Initialize services
	accountService := services.NewAccountService(userReadRepo, userWriteRepo, tokenStore, mail, images, func() string {
		return uuid.New().String()
	})
	authService := services.NewAuthService(userReadRepo, tokenStore)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.LocaleMiddleware)
	r.Use(middlewares.AuthMiddleware(tokenStore))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", handlers.NewRegisterHandler(accountService))
		r.Post("/users/token/{token}", handlers.NewActivateHandler(accountService))
		r.Get("/users", handlers.NewListUsersHandler(accountService))
		r.Get("/users/{id}", handlers.NewGetUserHandler(accountService))

		r.With(middlewares.RequireOwner(i18n.UnauthorizedUserUpdate, handlers.WriteError)).
			Put("/users/{id}", handlers.NewUpdateUserHandler(accountService))
		r.With(middlewares.RequireOwner(i18n.UnauthorizedUserDelete, handlers.WriteError)).
			Delete("/users/{id}", handlers.NewDeleteUserHandler(accountService))

		r.Post("/user/password", handlers.NewPasswordResetRequestHandler(accountService))
		r.Put("/user/password", handlers.NewPasswordUpdateHandler(accountService))

		r.Post("/auth", handlers.NewLoginHandler(authService))
		r.Post("/logout", handlers.NewLogoutHandler(authService))
	})

	r.Get("/images/{name}", handlers.NewImageHandler(images))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
