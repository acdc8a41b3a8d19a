package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vidsum/internal/constants"
	"github.com/vidsum/internal/models"
)

// JSONUserRepository 基于单个 JSON 文件的用户仓库
// 文件内容为 user_name -> 用户记录 的映射；每次操作整体读取，每次变更整体写回。
// 同一进程内的写操作由互斥锁串行化，多进程并发写入不受支持。
type JSONUserRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONUserRepository 创建 JSON 文件用户仓库
func NewJSONUserRepository(path string) *JSONUserRepository {
	if path == "" {
		path = constants.DefaultUserJSONPath
	}
	return &JSONUserRepository{path: path}
}

// Path 返回存储文件路径
func (r *JSONUserRepository) Path() string {
	return r.path
}

// GetByID 根据 ID 获取用户
func (r *JSONUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	users, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

// GetByIdentifier 根据用户名获取用户，不回退到邮箱查询
func (r *JSONUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if identifier == "" {
		return nil, nil
	}
	users, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return users[identifier], nil
}

// GetByEmail 根据邮箱获取用户
func (r *JSONUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	users, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(users) {
		if users[name].Email == email {
			return users[name], nil
		}
	}
	return nil, nil
}

// GetAll 获取全部用户，按用户名排序
func (r *JSONUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.User, 0, len(users))
	for _, name := range sortedKeys(users) {
		result = append(result, *users[name])
	}
	return result, nil
}

// Create 创建用户
func (r *JSONUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("create user: nil user")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := users[user.UserName]; ok {
		return nil, fmt.Errorf("create user %q: %w", user.UserName, ErrDuplicate)
	}
	if owner := emailOwner(users, user.Email); owner != "" {
		return nil, fmt.Errorf("create user %q: email taken: %w", user.UserName, ErrDuplicate)
	}

	if user.ID == 0 || idInUse(users, user.ID) {
		user.ID = nextID(users)
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.IdentityProvider == "" {
		user.IdentityProvider = constants.IdentityProviderLocal
	}

	users[user.UserName] = user.Clone()
	if err := r.save(users); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 按用户名覆盖用户记录
func (r *JSONUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("update user: nil user")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	stored, ok := users[user.UserName]
	if !ok {
		return nil, fmt.Errorf("update user %q: %w", user.UserName, ErrNotFound)
	}
	if owner := emailOwner(users, user.Email); owner != "" && owner != user.UserName {
		return nil, fmt.Errorf("update user %q: email taken: %w", user.UserName, ErrDuplicate)
	}

	if user.ID == 0 {
		user.ID = stored.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = stored.CreatedAt
	}
	user.UpdatedAt = time.Now()

	users[user.UserName] = user.Clone()
	if err := r.save(users); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户
func (r *JSONUserRepository) Delete(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("delete user: nil user")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[user.UserName]; !ok {
		return fmt.Errorf("delete user %q: %w", user.UserName, ErrNotFound)
	}
	delete(users, user.UserName)
	return r.save(users)
}

func (r *JSONUserRepository) read(ctx context.Context) (map[string]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// load 读取整个文件；文件不存在或为空视为空仓库
func (r *JSONUserRepository) load(ctx context.Context) (map[string]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := map[string]*models.User{}
	content, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return users, nil
		}
		return nil, fmt.Errorf("read user store: %w", err)
	}
	if len(content) == 0 {
		return users, nil
	}
	users, err = decodeUserStore(content)
	if err != nil {
		return nil, fmt.Errorf("decode user store: %w", err)
	}
	return users, nil
}

// save 先写临时文件再原子替换，避免读到半写入的内容
func (r *JSONUserRepository) save(users map[string]*models.User) error {
	payload, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create user store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create user store temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write user store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close user store: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace user store: %w", err)
	}
	return nil
}

func sortedKeys(users map[string]*models.User) []string {
	keys := make([]string, 0, len(users))
	for name := range users {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func emailOwner(users map[string]*models.User, email string) string {
	if email == "" {
		return ""
	}
	for _, name := range sortedKeys(users) {
		if users[name].Email == email {
			return name
		}
	}
	return ""
}

func idInUse(users map[string]*models.User, id uint) bool {
	for _, user := range users {
		if user.ID == id {
			return true
		}
	}
	return false
}

func nextID(users map[string]*models.User) uint {
	var maxID uint
	for _, user := range users {
		if user.ID > maxID {
			maxID = user.ID
		}
	}
	return maxID + 1
}
