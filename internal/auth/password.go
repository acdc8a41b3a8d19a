// Package auth 提供密码哈希与签名 Token 的工具函数。
// 所有校验失败都折叠为 false/空值，调用方无需区分失败原因。
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes bcrypt 可处理的最大密码字节数
const MaxPasswordBytes = 72

// HashPassword 使用 bcrypt 加密密码，每次调用使用随机盐
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验明文密码与哈希是否匹配，哈希格式错误时返回 false
func VerifyPassword(password, hashedPassword string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
