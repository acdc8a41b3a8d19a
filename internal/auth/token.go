package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL 默认 Token 有效期
const DefaultTokenTTL = 12 * time.Hour

// ErrEmptySecret 签名密钥为空
var ErrEmptySecret = errors.New("token secret is empty")

// TokenClaims 用户 Token 声明，subject 为用户名
type TokenClaims struct {
	jwt.RegisteredClaims
}

// GenerateToken 为用户名签发 HS256 Token，ttl<=0 时使用默认有效期
func GenerateToken(username, secret string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken 校验 Token 并返回用户名，签名错误、过期或格式错误时返回 false
func VerifyToken(tokenString, secret string) (string, bool) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || secret == "" {
		return "", false
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", false
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", false
	}
	return subject, true
}
