package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/ai"
	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/khanhtoandng/me-sub001/internal/database"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/server"
	"github.com/khanhtoandng/me-sub001/internal/storage"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	if cfg.Server.IsProduction() {
		logger.SetOutput(os.Stdout, false)
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: mongo=%v redis=%v ai=%v storage=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.AI.APIKey != "", cfg.Storage.Endpoint != "")

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	ctx := context.Background()
	checks := map[string]server.Check{}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var (
		userRepo users.UserRepository = users.NewMemoryUserRepository()
		content                       = server.NewMemoryContent()
	)
	if cfg.MongoDB.URI != "" {
		client, err := connectMongo(ctx, cfg.MongoDB)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Warnf("failed to ensure indexes: %v", err)
		}
		userRepo = users.NewMongoUserRepository(db.Collection("users"))
		content = server.NewMongoContent(db)
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	} else {
		logger.Warn("MONGODB_URI not set: content is kept in memory and lost on restart")
	}

	userSvc := users.NewService(userRepo, cfg.Auth.BcryptCost)
	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if _, err := userSvc.EnsureUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, models.RoleAdmin); err != nil {
			logger.Fatalf("failed to bootstrap admin user: %v", err)
		}
		logger.Infof("admin user %q ensured", cfg.Auth.AdminUsername)
	}

	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		s, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Warnf("object storage unavailable, uploads disabled: %v", err)
		} else {
			store = s
			checks["storage"] = s.Ping
		}
	}

	aiClient := ai.NewClient(cfg.AI)
	if !aiClient.Configured() {
		logger.Warn("AI_API_KEY not set: text enhancement will answer 500")
	}

	r := server.New(server.Deps{
		Config:   cfg,
		Tokens:   tokens.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:    userSvc,
		Content:  content,
		Enhancer: ai.NewEnhancer(aiClient),
		Store:    store,
		Redis:    rdb,
		Checks:   checks,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("portfolio server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// connectMongo retries with backoff to tolerate startup races with the database.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	const maxAttempts = 5
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, lastErr
}
