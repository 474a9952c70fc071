package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-user-auth/internal/handlers"
	authjwt "github.com/sbilibin2017/gw-user-auth/internal/jwt"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
	"github.com/sbilibin2017/gw-user-auth/internal/services"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-user-auth API
// @version 1.0.0
// @description Microservice for user registration, login and profile lookup
// @host localhost:8080
// @BasePath /api/auth
// @schemes http
// @securityDefinitions.apikey AuthToken
// @in header
// @name auth-token
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		databaseDSN, migrationsDir,
		redisAddr, redisPassword, redisDB, cacheTTLSecond,
		kafkaAddr, kafkaTopic,
		jwtSecret, jwtExpSecond, requestTimeoutSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		databaseDSN, migrationsDir,
		redisAddr, redisPassword, redisDB, cacheTTLSecond,
		kafkaAddr, kafkaTopic,
		jwtSecret, jwtExpSecond, requestTimeoutSecond,
	); err != nil {
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

// parseConfig loads environment variables from a file and returns all
// application, database, cache, Kafka and JWT configuration. The database
// DSN and the JWT secret are required; the process refuses to start
// without them rather than run with an unverifiable signing key.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	databaseDSN, migrationsDir string,
	redisAddr, redisPassword string, redisDB, cacheTTLSecond int,
	kafkaAddr, kafkaTopic string,
	jwtSecretKey string, jwtExpSecond, requestTimeoutSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	if requestTimeoutSecond, err = strconv.Atoi(getEnv("APP_REQUEST_TIMEOUT_SECOND", "15")); err != nil {
		return
	}

	// PostgreSQL config
	databaseDSN = getEnv("DATABASE_DSN", "")
	if databaseDSN == "" {
		err = errors.New("DATABASE_DSN is required")
		return
	}
	migrationsDir = getEnv("MIGRATIONS_DIR", "migrations")

	// Redis config (optional, empty address disables the profile cache)
	redisAddr = getEnv("REDIS_ADDR", "")
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	if cacheTTLSecond, err = strconv.Atoi(getEnv("CACHE_TTL_SECOND", "300")); err != nil {
		return
	}

	// Kafka config (optional, empty address disables signup events)
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_SIGNUP_TOPIC", "user-signups")

	// JWT config. A zero expiry issues tokens without an exp claim.
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		err = errors.New("JWT_SECRET_KEY is required")
		return
	}
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "0")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, migrations, cache, Kafka writer
// and HTTP server. It sets up routes, applies middleware, and handles
// graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	databaseDSN, migrationsDir string,
	redisAddr, redisPassword string, redisDB, cacheTTLSecond int,
	kafkaAddr, kafkaTopic string,
	jwtSecretKey string, jwtExpSecond, requestTimeoutSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	db, err := sqlx.ConnectContext(ctx, "pgx", databaseDSN)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}

	// Apply pending migrations
	migrator, err := migrate.New("file://"+migrationsDir, databaseDSN)
	if err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	_, _ = migrator.Close()
	logger.Log.Info("Database migrations applied")

	// Connect to Redis when a profile cache is configured
	var cacheRepo services.UserCache
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		cacheRepo = repositories.NewUserCacheRepository(rdb, time.Duration(cacheTTLSecond)*time.Second)
		logger.Log.Infof("Profile cache enabled at %s", redisAddr)
	}

	// Build Kafka writer when signup events are configured
	var eventWriter services.EventWriter
	if kafkaAddr != "" {
		kw := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kw.Close()
		eventWriter = kw
		logger.Log.Infof("Signup events enabled, topic %s", kafkaTopic)
	}

	// Initialize token service
	tokens := authjwt.New(
		authjwt.WithSecretKey(jwtSecretKey),
		authjwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, cacheRepo, tokens, eventWriter)

	// Initialize handlers
	createUserHandler := handlers.NewCreateUserHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	getUserHandler := handlers.NewGetUserHandler(authService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware())
	r.Use(chimiddleware.Timeout(time.Duration(requestTimeoutSecond) * time.Second))

	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/createuser", createUserHandler)
		r.Post("/login", loginHandler)

		// Protected routes with auth middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Post("/getuser", getUserHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
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
