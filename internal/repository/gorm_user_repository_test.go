package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/vidsum/internal/models"

	"gorm.io/gorm"
)

func TestGormUserRepositoryWithTxRollback(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	rollback := errors.New("rollback")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Create(ctx, newTestUser("alice", "alice@x.com")); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("transaction want rollback error got %v", err)
	}
	if got, err := repo.GetByIdentifier(ctx, "alice"); err != nil || got != nil {
		t.Fatalf("rolled back user should be absent, got %+v err=%v", got, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.WithTx(tx).Create(ctx, newTestUser("bob", "bob@x.com"))
		return err
	})
	if err != nil {
		t.Fatalf("commit transaction failed: %v", err)
	}
	if got, _ := repo.GetByIdentifier(ctx, "bob"); got == nil {
		t.Fatalf("committed user should exist")
	}
}

func TestGormUserRepositoryWithNilTx(t *testing.T) {
	repo := NewUserRepository(setupUserTestDB(t))
	if repo.WithTx(nil) != repo {
		t.Fatalf("nil tx should keep the original repository")
	}
}

func TestGormUserRepositoryDefaultsIdentityProvider(t *testing.T) {
	repo := NewUserRepository(setupUserTestDB(t))
	user := &models.User{UserName: "alice", Email: "alice@x.com", PasswordHash: "hash"}
	if _, err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	got, err := repo.GetByIdentifier(context.Background(), "alice")
	if err != nil || got == nil {
		t.Fatalf("get user failed: %+v %v", got, err)
	}
	if got.IdentityProvider != "local" {
		t.Fatalf("identity provider want local got %q", got.IdentityProvider)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Fatalf("nil is not a unique violation")
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm duplicated key should count")
	}
	if !isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")) {
		t.Fatalf("sqlite message should count")
	}
	if isUniqueViolation(errors.New("disk I/O error")) {
		t.Fatalf("generic errors must not count")
	}
}
