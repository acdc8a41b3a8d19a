package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vidsum/internal/models"
)

func TestParseBackend(t *testing.T) {
	cases := []struct {
		input string
		want  Backend
		err   bool
	}{
		{input: "", want: BackendJSON},
		{input: "json", want: BackendJSON},
		{input: " JSON ", want: BackendJSON},
		{input: "postgres", want: BackendPostgres},
		{input: "mysql", err: true},
		{input: "sqlite", err: true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseBackend(tc.input)
			if tc.err {
				if !errors.Is(err, ErrUnsupportedBackend) {
					t.Fatalf("want ErrUnsupportedBackend got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse backend failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestSelectUserRepositoryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	sel, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "json", JSONPath: path})
	if err != nil {
		t.Fatalf("select json failed: %v", err)
	}
	repo, ok := sel.Repository.(*JSONUserRepository)
	if !ok {
		t.Fatalf("want *JSONUserRepository got %T", sel.Repository)
	}
	if repo.Path() != path {
		t.Fatalf("json path want %s got %s", path, repo.Path())
	}
	if sel.Fallback || sel.Backend != BackendJSON {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestSelectUserRepositoryPostgres(t *testing.T) {
	db := setupUserTestDB(t)
	sel, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "postgres", DB: db})
	if err != nil {
		t.Fatalf("select postgres failed: %v", err)
	}
	if _, ok := sel.Repository.(*GormUserRepository); !ok {
		t.Fatalf("want *GormUserRepository got %T", sel.Repository)
	}
	if sel.Fallback || sel.Backend != BackendPostgres {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestSelectUserRepositoryPostgresWithoutDBFallsBack(t *testing.T) {
	sel, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "postgres", JSONPath: filepath.Join(t.TempDir(), "users.json")})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if _, ok := sel.Repository.(*JSONUserRepository); !ok {
		t.Fatalf("want json fallback got %T", sel.Repository)
	}
	if !sel.Fallback || sel.Reason != "db_unavailable" || sel.Requested != BackendPostgres {
		t.Fatalf("fallback should be signalled: %+v", sel)
	}
}

func TestSelectUserRepositoryPostgresClosedDBFallsBack(t *testing.T) {
	db := setupUserTestDB(t)
	if err := models.CloseDB(db); err != nil {
		t.Fatalf("close db failed: %v", err)
	}
	sel, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "postgres", DB: db, JSONPath: filepath.Join(t.TempDir(), "users.json")})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if !sel.Fallback || sel.Reason != "db_ping_failed" || sel.Backend != BackendJSON {
		t.Fatalf("closed db should fall back to json: %+v", sel)
	}
}

func TestSelectUserRepositoryCIOverride(t *testing.T) {
	db := setupUserTestDB(t)
	sel, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "postgres", DB: db, InCI: true, JSONPath: filepath.Join(t.TempDir(), "users.json")})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if sel.Backend != BackendJSON || sel.Reason != "ci_environment" {
		t.Fatalf("ci should force json: %+v", sel)
	}
}

func TestSelectUserRepositoryRejectsUnknownType(t *testing.T) {
	_, err := SelectUserRepository(context.Background(), SelectorOptions{Type: "mongo"})
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("want ErrUnsupportedBackend got %v", err)
	}
	// CI 覆盖不掩盖配置错误
	_, err = SelectUserRepository(context.Background(), SelectorOptions{Type: "mongo", InCI: true})
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("ci must still reject unknown type, got %v", err)
	}
}
