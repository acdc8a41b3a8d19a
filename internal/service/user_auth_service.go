package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/vidsum/internal/auth"
	"github.com/vidsum/internal/config"
	"github.com/vidsum/internal/constants"
	"github.com/vidsum/internal/logger"
	"github.com/vidsum/internal/models"
	"github.com/vidsum/internal/repository"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// Register 用户注册：先校验用户名，再校验邮箱，任一已存在均拒绝且不修改存储
func (s *UserAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByIdentifier(ctx, username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUserAlreadyExists
	}
	exist, err = s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, &models.User{
		UserName:         username,
		Email:            normalized,
		PasswordHash:     hashedPassword,
		IdentityProvider: constants.IdentityProviderLocal,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	logger.Infow("user_registered", "user_name", created.UserName)
	return created, nil
}

// Authenticate 校验用户名（或邮箱）与密码
// 用户不存在、非本地账号与密码错误都返回 (nil, nil)，不向调用方区分原因。
func (s *UserAuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsLocal() {
		// 与存在用户时耗时一致；外部身份账号不接受本地密码
		auth.VerifyPassword(password, dummyPasswordHash())
		return nil, nil
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// AuthenticateByToken 通过 Token 解析当前用户，Token 无效或用户不存在时返回 (nil, nil)
func (s *UserAuthService) AuthenticateByToken(ctx context.Context, token string) (*models.User, error) {
	username, ok := auth.VerifyToken(token, s.cfg.JWT.SecretKey)
	if !ok {
		return nil, nil
	}
	return s.userRepo.GetByIdentifier(ctx, username)
}

// GenerateToken 为用户签发无状态 Token，不写入存储
func (s *UserAuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, ErrNotFound
	}
	if s.cfg.JWT.SecretKey == "" {
		return "", time.Time{}, ErrTokenSecretMissing
	}
	return auth.GenerateToken(user.UserName, s.cfg.JWT.SecretKey, s.cfg.JWT.TTL())
}

// Login 用户登录：校验凭据、签发 Token 并记录登录时间
func (s *UserAuthService) Login(ctx context.Context, identifier, password string) (*models.User, string, time.Time, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		logger.Warnw("user_login_failed", "identifier", strings.TrimSpace(identifier))
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginDate = &now
	user.TokenIssuanceDate = &now
	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	logger.Infow("user_login_succeeded", "user_name", updated.UserName)
	return updated, token, expiresAt, nil
}

// GetUser 按用户名查询；标识中包含 @ 且用户名未命中时按邮箱查询
func (s *UserAuthService) GetUser(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil || user != nil {
		return user, err
	}
	if !strings.Contains(identifier, "@") {
		return nil, nil
	}
	return s.GetUserByEmail(ctx, identifier)
}

// GetUserByEmail 按邮箱查询用户
func (s *UserAuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	return s.userRepo.GetByEmail(ctx, normalized)
}

// UpdateUserEmail 修改用户邮箱，邮箱属于其他用户时返回 ErrEmailInUse
func (s *UserAuthService) UpdateUserEmail(ctx context.Context, user *models.User, newEmail string) (*models.User, error) {
	if user == nil {
		return nil, ErrNotFound
	}
	normalized, err := normalizeEmail(newEmail)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.UserName != user.UserName {
		return nil, ErrEmailInUse
	}

	target := user.Clone()
	target.Email = normalized
	updated, err := s.userRepo.Update(ctx, target)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	logger.Infow("user_email_updated", "user_name", updated.UserName)
	return updated, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("vidsum-dummy-password")
	if err != nil {
		return ""
	}
	return hash
})
