package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vidsum/internal/models"
)

// storeTimeLayouts 依次尝试的时间格式，兼容不带时区的 ISO 8601 写法，无时区按 UTC 处理
var storeTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// storeTime 用户文件中的时间字段
type storeTime struct {
	value *time.Time
}

func (t *storeTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.value = nil
		return nil
	}
	for _, layout := range storeTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.value = &parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported time value %q", raw)
}

func (t storeTime) ptr() *time.Time {
	return t.value
}

func (t storeTime) orZero() time.Time {
	if t.value == nil {
		return time.Time{}
	}
	return *t.value
}

// jsonUserRecord 用户文件中单条记录的解码形态
type jsonUserRecord struct {
	UserID            *uint     `json:"user_id"`
	UserName          string    `json:"user_name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"password_hash"`
	LastLoginDate     storeTime `json:"last_login_date"`
	TokenIssuanceDate storeTime `json:"token_issuance_date"`
	Token             *string   `json:"token"`
	IdentityProvider  *string   `json:"identity_provider"`
	CreatedAt         storeTime `json:"created_at"`
	UpdatedAt         storeTime `json:"updated_at"`
}

func (r *jsonUserRecord) toModel() *models.User {
	user := &models.User{
		UserName:          r.UserName,
		Email:             r.Email,
		PasswordHash:      r.PasswordHash,
		LastLoginDate:     r.LastLoginDate.ptr(),
		TokenIssuanceDate: r.TokenIssuanceDate.ptr(),
		Token:             r.Token,
		CreatedAt:         r.CreatedAt.orZero(),
		UpdatedAt:         r.UpdatedAt.orZero(),
	}
	if r.UserID != nil {
		user.ID = *r.UserID
	}
	if r.IdentityProvider != nil {
		user.IdentityProvider = *r.IdentityProvider
	}
	return user
}

func decodeUserStore(content []byte) (map[string]*models.User, error) {
	records := map[string]*jsonUserRecord{}
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, err
	}
	users := make(map[string]*models.User, len(records))
	for name, record := range records {
		if record == nil {
			continue
		}
		user := record.toModel()
		if user.UserName == "" {
			user.UserName = name
		}
		users[name] = user
	}
	return users, nil
}
