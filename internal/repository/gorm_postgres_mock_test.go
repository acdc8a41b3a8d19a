package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/vidsum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newPostgresMockRepo(t *testing.T, monitorPings bool) (*GormUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(monitorPings),
	)
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open gorm on sqlmock failed: %v", err)
	}
	return NewUserRepository(db), mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email", Message: "duplicate key value violates unique constraint"}
}

func TestGormPostgresCreateUniqueViolation(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, false)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), newTestUser("alice", "alice@x.com"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("23505 should map to ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormPostgresUpdateUniqueViolation(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, false)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	user := newTestUser("alice", "bob@x.com")
	user.ID = 7
	if _, err := repo.Update(context.Background(), user); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("23505 on update should map to ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormPostgresUpdateNoRows(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, false)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .* WHERE \(?user_id = \$\d+ AND user_name = \$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	user := newTestUser("ghost", "ghost@x.com")
	user.ID = 99
	if _, err := repo.Update(context.Background(), user); !errors.Is(err, ErrNotFound) {
		t.Fatalf("zero rows should map to ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormPostgresDeleteNoRows(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, false)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users" WHERE \(?user_id = \$1 AND user_name = \$2`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), &models.User{ID: 5, UserName: "gone"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("zero rows should map to ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormPostgresStorageErrorPropagates(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, false)

	down := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_name = \$1`).WillReturnError(down)

	if _, err := repo.GetByIdentifier(context.Background(), "alice"); !errors.Is(err, down) {
		t.Fatalf("storage errors should propagate, got %v", err)
	}
}

func TestSelectorFallsBackWhenPostgresPingFails(t *testing.T) {
	repo, mock := newPostgresMockRepo(t, true)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	sel, err := SelectUserRepository(context.Background(), SelectorOptions{
		Type:     "postgres",
		JSONPath: t.TempDir() + "/users.json",
		DB:       repo.db,
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if sel.Backend != BackendJSON || !sel.Fallback || sel.Reason != "db_ping_failed" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}
