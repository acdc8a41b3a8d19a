package models

import (
	"time"

	"github.com/vidsum/internal/constants"
)

// User 用户表
type User struct {
	ID                uint       `gorm:"column:user_id;primarykey" json:"user_id,omitempty"`                        // 主键（关系库自增，JSON 存储按序分配）
	UserName          string     `gorm:"column:user_name;size:255;uniqueIndex;not null" json:"user_name"`           // 用户名
	Email             string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`                   // 邮箱
	PasswordHash      string     `gorm:"column:password_hash;size:100;not null" json:"password_hash"`               // 密码哈希
	LastLoginDate     *time.Time `gorm:"column:last_login_date" json:"last_login_date"`                             // 最后登录时间
	TokenIssuanceDate *time.Time `gorm:"column:token_issuance_date" json:"token_issuance_date"`                     // 最近一次签发 Token 的时间
	Token             *string    `gorm:"column:token;size:255" json:"token"`                                        // 兼容字段，无状态 Token 方案下不写入
	IdentityProvider  string     `gorm:"column:identity_provider;size:30;default:'local'" json:"identity_provider"` // 身份来源
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                                                // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsLocal 是否本地账号
func (u *User) IsLocal() bool {
	if u == nil {
		return false
	}
	return u.IdentityProvider == "" || u.IdentityProvider == constants.IdentityProviderLocal
}

// Clone 返回用户副本，指针字段同样深拷贝
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.LastLoginDate != nil {
		t := *u.LastLoginDate
		cp.LastLoginDate = &t
	}
	if u.TokenIssuanceDate != nil {
		t := *u.TokenIssuanceDate
		cp.TokenIssuanceDate = &t
	}
	if u.Token != nil {
		s := *u.Token
		cp.Token = &s
	}
	return &cp
}
