package provider

import (
	"context"
	"errors"

	"github.com/vidsum/internal/cache"
	"github.com/vidsum/internal/config"
	"github.com/vidsum/internal/logger"
	"github.com/vidsum/internal/models"
	"github.com/vidsum/internal/repository"
	"github.com/vidsum/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container 依赖注入容器，持有的连接由 Close 统一释放
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo          repository.UserRepository
	RepositoryBackend repository.Backend

	// Services
	UserAuthService *service.UserAuthService
}

// NewContainer 初始化容器；仓库类型非法时返回错误，数据库不可用时回退到 JSON 仓库
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	c := &Container{
		Config:      cfg,
		RedisClient: cache.NewRedisClient(&cfg.Redis),
	}

	if cfg.Repository.UsesDatabase() && !cfg.ForceJSONRepository() {
		c.DB = openDatabase(cfg)
	}

	selection, err := repository.SelectUserRepository(ctx, repository.SelectorOptions{
		Type:     cfg.Repository.Type,
		JSONPath: cfg.Repository.JSONPath,
		InCI:     cfg.ForceJSONRepository(),
		DB:       c.DB,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.UserRepo = selection.Repository
	c.RepositoryBackend = selection.Backend
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	return c, nil
}

// Close 释放数据库与 Redis 连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, models.CloseDB(c.DB))
	}
	return errors.Join(errs...)
}

func openDatabase(cfg *config.Config) *gorm.DB {
	pool := models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, pool, cfg.Server.Mode == "debug")
	if err != nil {
		logger.Warnw("provider_open_db_failed", "driver", cfg.Database.Driver, "error", err)
		return nil
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Warnw("provider_auto_migrate_failed", "driver", cfg.Database.Driver, "error", err)
		_ = models.CloseDB(db)
		return nil
	}
	return db
}
