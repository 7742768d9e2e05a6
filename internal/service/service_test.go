package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/imagerepo/internal/db"
	"github.com/templui/imagerepo/internal/model"
	"github.com/templui/imagerepo/internal/repository"
)

// newTestDB opens a migrated SQLite database that lives for the test
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return database
}

func createUser(t *testing.T, repo repository.UserRepository, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           username + "-id",
		Username:     username,
		PasswordHash: "unused",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// fakeAnnotator returns a fixed annotation and records what it was sent
type fakeAnnotator struct {
	mu         sync.Mutex
	annotation *Annotation
	calls      [][]byte
}

func (f *fakeAnnotator) Annotate(ctx context.Context, image []byte) *Annotation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, image)
	return f.annotation
}
