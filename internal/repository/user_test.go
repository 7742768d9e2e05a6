package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/templui/imagerepo/internal/model"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	insert := `INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{name: "sqlite unique violation", execErr: errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), wantErr: ErrDuplicateUsername},
		{name: "postgres unique violation", execErr: errors.New(`ERROR: duplicate key value violates unique constraint "users_username_key"`), wantErr: ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()

			exp := mock.ExpectExec(regexp.QuoteMeta(insert)).WithArgs("u1", "alice", "hash", now)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			repo := NewUserRepository(db)
			err := repo.Create(&model.User{ID: "u1", Username: "alice", PasswordHash: "hash", CreatedAt: now})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserRepository_Create_OtherErrorPassesThrough(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	dbErr := errors.New("disk I/O error")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).WillReturnError(dbErr)

	err := NewUserRepository(db).Create(&model.User{ID: "u1", Username: "alice"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}
}

func TestUserRepository_ByUsername(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now().UTC()
	query := regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)
	mock.ExpectQuery(query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "alice", "hash", now))
	mock.ExpectQuery(query).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)

	user, err := repo.ByUsername("alice")
	if err != nil {
		t.Fatalf("ByUsername() error = %v", err)
	}
	if user.ID != "u1" || user.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, err = repo.ByUsername("nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)
	mock.ExpectExec(query).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("u2").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	if err := repo.Delete("u1"); err != nil {
		t.Fatalf("Delete(u1) error = %v", err)
	}
	if err := repo.Delete("u2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Delete(u2) expected ErrUserNotFound, got %v", err)
	}
}
