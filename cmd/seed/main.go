package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/vidsum/internal/config"
	"github.com/vidsum/internal/logger"
	"github.com/vidsum/internal/models"
	"github.com/vidsum/internal/provider"
	"github.com/vidsum/internal/service"
)

func main() {
	var username, email, password string
	flag.StringVar(&username, "username", os.Getenv("VS_SEED_USERNAME"), "初始化用户的用户名")
	flag.StringVar(&email, "email", os.Getenv("VS_SEED_EMAIL"), "初始化用户的邮箱")
	flag.StringVar(&password, "password", os.Getenv("VS_SEED_PASSWORD"), "初始化用户的密码")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 使用关系库时先建表，连接失败直接退出
	if cfg.Repository.UsesDatabase() && !cfg.ForceJSONRepository() {
		if err := migrate(cfg); err != nil {
			stdLog.Fatalf("Failed to migrate database: %v", err)
		}
		stdLog.Printf("Database migrated (%s)", cfg.Database.Driver)
	}

	if username == "" {
		stdLog.Printf("No seed user requested, done")
		return
	}

	container, err := provider.NewContainer(ctx, cfg)
	if err != nil {
		stdLog.Fatalf("Failed to build container: %v", err)
	}
	defer container.Close()

	user, err := container.UserAuthService.Register(ctx, username, email, password)
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		stdLog.Printf("User already exists: %s", username)
	case err != nil:
		stdLog.Fatalf("Failed to create user %s: %v", username, err)
	default:
		stdLog.Printf("Created user %s (%s) on %s backend", user.UserName, user.Email, container.RepositoryBackend)
	}
}

func migrate(cfg *config.Config) error {
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		return err
	}
	defer models.CloseDB(db)
	return models.AutoMigrate(db)
}
