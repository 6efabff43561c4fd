package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yogapermana/accountd/config"
	"github.com/yogapermana/accountd/internal/application"
	pginfra "github.com/yogapermana/accountd/internal/infrastructure/postgres"
	"github.com/yogapermana/accountd/internal/infrastructure/rediscache"
	handlers "github.com/yogapermana/accountd/internal/interface/http"
	"github.com/yogapermana/accountd/internal/interface/middleware"
	"github.com/yogapermana/accountd/pkg/helpers"
	"github.com/yogapermana/accountd/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Durable store: pool + schema. Running the migrations here is the one
	// explicit initialization step that configures the store with the
	// record types it handles.
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Cache
	rdb := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	cache := rediscache.New(rdb, cfg.CacheTTL)

	// Task dispatcher
	rabbit, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQMailQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer rabbit.Close()

	// Core services
	accounts := pginfra.NewUserAccountRepository(pool)
	logins := pginfra.NewPersistentLoginRepository(pool)

	directory := application.NewDirectory(accounts, cache, rabbit, logger)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: addrs,
			Username:  cfg.ElasticsearchUser,
			Password:  cfg.ElasticsearchPass,
		})
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		directory.ES = es
		directory.ESIndex = cfg.ESAccountsIndex
	}

	rememberMe := application.NewRememberMe(logins, logger)
	authenticator := application.NewAuthenticator(directory)

	accountHandler := handlers.NewAccountHandler(directory, logger)
	authHandler := handlers.NewAuthHandler(authenticator, rememberMe, logger)
	adminHandler := handlers.NewAdminHandler(directory, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	api := r.Group("/api")
	{
		api.POST("/signup", accountHandler.Signup)
		api.GET("/activate/:key", accountHandler.Activate)
		api.GET("/accounts/:username/activation-email", accountHandler.ActivationEmailSent)

		// Produced interface for the external authentication layer.
		auth := api.Group("/auth")
		auth.GET("/users/:username", authHandler.LoadUser)
		auth.POST("/tokens", authHandler.CreateToken)
		auth.GET("/tokens/:series", authHandler.LookupToken)
		auth.PUT("/tokens/:series", authHandler.RotateToken)
		auth.GET("/users/:username/tokens", authHandler.ListTokens)
		auth.DELETE("/users/:username/tokens", authHandler.RevokeTokens)

		admin := api.Group("/admin")
		admin.POST("/cache/flush", adminHandler.FlushCache)
		admin.GET("/accounts/search", adminHandler.SearchAccounts)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
