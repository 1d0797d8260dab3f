package main

import (
	"context"
	"flag"
	"os"

	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/khanhtoandng/me-sub001/internal/content/repository"
	"github.com/khanhtoandng/me-sub001/internal/content/service"
	"github.com/khanhtoandng/me-sub001/internal/database"
	"github.com/khanhtoandng/me-sub001/internal/seed"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "seed in-memory stores only and report what would be created")
	skipAdmin := flag.Bool("skip-admin", false, "do not create or update the admin account")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	var (
		userRepo users.UserRepository = users.NewMemoryUserRepository()
		types                         = service.NewMemory(content.ProjectTypes)
	)
	if !*dryRun {
		if cfg.MongoDB.URI == "" {
			logger.Fatalf("MONGODB_URI is required unless -dry-run is set")
		}
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("cannot connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalf("failed to ensure indexes: %v", err)
		}
		userRepo = users.NewMongoUserRepository(db.Collection("users"))
		types = service.New(content.ProjectTypes, repository.NewMongoRepo(db.Collection(content.ProjectTypes.Collection), content.ProjectTypes.New))
	}

	admin := seed.Admin{Username: cfg.Auth.AdminUsername, Email: cfg.Auth.AdminEmail, Password: cfg.Auth.AdminPassword}
	if *skipAdmin {
		admin = seed.Admin{}
	}
	rep, err := seed.Run(ctx, users.NewService(userRepo, cfg.Auth.BcryptCost), types, admin)
	if err != nil {
		logger.Fatalf("seed failed: %v", err)
	}
	logger.Infof("seed done (dry-run=%v): admin=%v projectTypes created=%d skipped=%d", *dryRun, rep.AdminEnsured, rep.ProjectTypesCreated, rep.ProjectTypesSkipped)
}
