package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/imagerepo/internal/model"
)

var (
	ErrImageNotFound = errors.New("image not found")
)

type ImageRepository interface {
	Create(image *model.Image) error
	ByID(id string) (*model.Image, error)
	ByUser(userID string) ([]*model.Image, error)
	CountByUser(userID string) (int, error)
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(image *model.Image) error {
	query := `INSERT INTO images (id, user_id, storage_path, original_name, mime_type, size, description, tags, colors, result, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		image.ID,
		image.UserID,
		image.StoragePath,
		image.OriginalName,
		image.MimeType,
		image.Size,
		image.Description,
		image.Tags,
		image.Colors,
		image.Result,
		image.CreatedAt,
	)

	return err
}

func (r *imageRepository) ByID(id string) (*model.Image, error) {
	image := &model.Image{}
	query := `SELECT * FROM images WHERE id = $1`

	err := r.db.Get(image, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}

	return image, err
}

// ByUser returns the user's images, newest first. IDs are time-ordered and
// break ties between rows created within the same clock tick.
func (r *imageRepository) ByUser(userID string) ([]*model.Image, error) {
	var images []*model.Image
	query := `SELECT * FROM images WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.Select(&images, query, userID)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) CountByUser(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM images WHERE user_id = $1`

	err := r.db.Get(&count, query, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
