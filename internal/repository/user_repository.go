package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vidsum/internal/constants"
	"github.com/vidsum/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
// 查询类方法在记录不存在时返回 (nil, nil)；
// Create 遇到重复用户名/邮箱返回 ErrDuplicate，Update/Delete 目标不存在返回 ErrNotFound。
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定调用方提供的事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Ping 检查数据库连接是否可用
func (r *GormUserRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("user repository: nil db")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIdentifier 根据用户名获取用户（仅精确匹配用户名）
func (r *GormUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.firstBy(ctx, "user_name", identifier)
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.firstBy(ctx, "email", email)
}

func (r *GormUserRepository) firstBy(ctx context.Context, column, value string) (*models.User, error) {
	if value == "" {
		return nil, nil
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetAll 获取全部用户，按用户名排序
func (r *GormUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("user_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("create user: nil user")
	}
	if user.IdentityProvider == "" {
		user.IdentityProvider = constants.IdentityProviderLocal
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create user %q: %w", user.UserName, ErrDuplicate)
		}
		return nil, err
	}
	return user, nil
}

// Update 按主键覆盖用户记录；主键为空时按用户名定位
// 用户名是记录的身份，主键对应的用户名不一致时视为不存在，与 JSON 存储一致。
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("update user: nil user")
	}
	id, err := r.resolveID(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND user_name = ?", id, user.UserName).
		Select("*").
		Omit("user_id", "created_at").
		Updates(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, fmt.Errorf("update user %q: %w", user.UserName, ErrDuplicate)
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update user %q: %w", user.UserName, ErrNotFound)
	}
	return user, nil
}

// Delete 删除用户（物理删除）
func (r *GormUserRepository) Delete(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("delete user: nil user")
	}
	id, err := r.resolveID(ctx, user)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("user_id = ? AND user_name = ?", id, user.UserName).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete user %q: %w", user.UserName, ErrNotFound)
	}
	return nil
}

func (r *GormUserRepository) resolveID(ctx context.Context, user *models.User) (uint, error) {
	if user.ID != 0 {
		return user.ID, nil
	}
	existing, err := r.GetByIdentifier(ctx, user.UserName)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, fmt.Errorf("user %q: %w", user.UserName, ErrNotFound)
	}
	return existing.ID, nil
}
