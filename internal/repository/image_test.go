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

var imageColumns = []string{
	"id", "user_id", "storage_path", "original_name", "mime_type", "size",
	"description", "tags", "colors", "result", "created_at",
}

func TestImageRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	img := &model.Image{
		ID:           "i1",
		UserID:       "u1",
		StoragePath:  "alice/cat.png",
		OriginalName: "cat.png",
		MimeType:     "image/png",
		Size:         42,
		Description:  "a cat.",
		Tags:         "#cat #indoor",
		Colors:       "white grey",
		Result:       `{"requestId":"x"}`,
		CreatedAt:    now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO images`)).
		WithArgs("i1", "u1", "alice/cat.png", "cat.png", "image/png", int64(42), "a cat.", "#cat #indoor", "white grey", `{"requestId":"x"}`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewImageRepository(db).Create(img)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestImageRepository_ByUser_NewestFirst(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	older := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	query := regexp.QuoteMeta(`SELECT * FROM images WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)
	mock.ExpectQuery(query).WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(imageColumns).
			AddRow("i2", "u1", "alice/b.png", "b.png", "image/png", 2, "", "", "", "", newer).
			AddRow("i1", "u1", "alice/a.png", "a.png", "image/png", 1, "", "", "", "", older),
	)

	images, err := NewImageRepository(db).ByUser("u1")
	if err != nil {
		t.Fatalf("ByUser() error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].ID != "i2" || images[1].ID != "i1" {
		t.Fatalf("unexpected order: %s, %s", images[0].ID, images[1].ID)
	}
}

func TestImageRepository_ByID_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM images WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := NewImageRepository(db).ByID("missing")
	if !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestImageRepository_CountByUser(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM images WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewImageRepository(db).CountByUser("u1")
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}
