//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/vidsum/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	_ = db.Migrator().DropTable(&models.User{})
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres users failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&models.User{})
		_ = models.CloseDB(db)
	})
	return db
}

func TestPostgresUserRepositoryDuplicateAndLifecycle(t *testing.T) {
	repo := NewUserRepository(setupPostgresIntegrationDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser("alice", "alice@x.com"))
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := repo.Create(ctx, newTestUser("alice", "other@x.com")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username want ErrDuplicate got %v", err)
	}
	if _, err := repo.Create(ctx, newTestUser("bob", "alice@x.com")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email want ErrDuplicate got %v", err)
	}

	created.Email = "alice2@x.com"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update user failed: %v", err)
	}
	if got, _ := repo.GetByEmail(ctx, "alice2@x.com"); got == nil || got.ID != created.ID {
		t.Fatalf("updated email should resolve to alice, got %+v", got)
	}
	if err := repo.Delete(ctx, created); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if got, _ := repo.GetByIdentifier(ctx, "alice"); got != nil {
		t.Fatalf("deleted user should be absent")
	}
}
