package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate 唯一键冲突（用户名或邮箱已存在）
	ErrDuplicate = errors.New("duplicate identifier")
	// ErrNotFound 更新或删除的记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrUnsupportedBackend 未知的仓库类型
	ErrUnsupportedBackend = errors.New("unsupported repository type")
)

const pgUniqueViolation = "23505"

// isUniqueViolation 判断数据库错误是否为唯一约束冲突，兼容 sqlite 与 postgres
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
