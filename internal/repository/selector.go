package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidsum/internal/constants"
	"github.com/vidsum/internal/logger"

	"gorm.io/gorm"
)

// Backend 用户仓库后端类型
type Backend string

const (
	// BackendJSON JSON 文件存储
	BackendJSON Backend = constants.RepositoryTypeJSON
	// BackendPostgres 关系型数据库存储（驱动由 database.driver 决定）
	BackendPostgres Backend = constants.RepositoryTypePostgres
)

// ParseBackend 解析仓库类型配置，空值默认为 json
func ParseBackend(value string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", constants.RepositoryTypeJSON:
		return BackendJSON, nil
	case constants.RepositoryTypePostgres:
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, value)
	}
}

// SelectorOptions 仓库选择参数
type SelectorOptions struct {
	Type     string   // repository.type 配置值
	JSONPath string   // JSON 存储文件路径
	InCI     bool     // CI 环境下强制使用 JSON
	DB       *gorm.DB // 关系型数据库连接，可为空
}

// Selection 仓库选择结果
type Selection struct {
	Repository UserRepository
	Backend    Backend
	Requested  Backend
	Fallback   bool   // postgres 不可用时回退到 JSON
	Reason     string // 回退或覆盖原因
}

// SelectUserRepository 根据配置选择用户仓库，仅在装配阶段调用一次
func SelectUserRepository(ctx context.Context, opts SelectorOptions) (*Selection, error) {
	requested, err := ParseBackend(opts.Type)
	if err != nil {
		return nil, err
	}

	if opts.InCI {
		if requested == BackendJSON {
			return jsonSelection(opts, requested, false, ""), nil
		}
		logger.Infow("user_repository_ci_override", "requested", requested, "selected", BackendJSON)
		return jsonSelection(opts, requested, true, "ci_environment"), nil
	}

	switch requested {
	case BackendPostgres:
		if opts.DB == nil {
			logger.Warnw("user_repository_fallback_json", "requested", requested, "reason", "db_unavailable", "json_path", opts.JSONPath)
			return jsonSelection(opts, requested, true, "db_unavailable"), nil
		}
		repo := NewUserRepository(opts.DB)
		if err := repo.Ping(ctx); err != nil {
			logger.Warnw("user_repository_fallback_json", "requested", requested, "reason", "db_ping_failed", "error", err, "json_path", opts.JSONPath)
			return jsonSelection(opts, requested, true, "db_ping_failed"), nil
		}
		logger.Infow("user_repository_selected", "backend", BackendPostgres)
		return &Selection{Repository: repo, Backend: BackendPostgres, Requested: requested}, nil
	default:
		logger.Infow("user_repository_selected", "backend", BackendJSON, "json_path", opts.JSONPath)
		return jsonSelection(opts, requested, false, ""), nil
	}
}

func jsonSelection(opts SelectorOptions, requested Backend, fallback bool, reason string) *Selection {
	return &Selection{
		Repository: NewJSONUserRepository(opts.JSONPath),
		Backend:    BackendJSON,
		Requested:  requested,
		Fallback:   fallback,
		Reason:     reason,
	}
}
