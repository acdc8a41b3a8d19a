package app

import (
	"context"
	"errors"

	"github.com/vidsum/internal/config"
	"github.com/vidsum/internal/provider"
	"github.com/vidsum/internal/router"
)

// BuildRunner 构建服务运行器，返回的容器需由调用方关闭
func BuildRunner(ctx context.Context, cfg *config.Config) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := router.SetupRouter(cfg, container)
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return NewRunner(NewHTTPService(addr, engine)), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(context.Background(), opts.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			opts.Logger.Errorw("app_close_failed", "error", closeErr)
		}
	}()

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"repository_backend", container.RepositoryBackend,
	)
	return RunWithOptions(runner, opts)
}
