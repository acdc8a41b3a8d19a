package service

import "errors"

var (
	// ErrUserAlreadyExists 用户名或邮箱已被注册
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrNotFound 用户不存在
	ErrNotFound = errors.New("user not found")
	// ErrEmailInUse 邮箱已被其他用户占用
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidUsername 用户名为空
	ErrInvalidUsername = errors.New("invalid username")
	// ErrWeakPassword 密码不满足策略
	ErrWeakPassword = errors.New("password does not satisfy policy")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenSecretMissing 未配置 Token 签名密钥
	ErrTokenSecretMissing = errors.New("token secret is not configured")
)
