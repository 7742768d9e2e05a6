package model

import (
	"path"
	"time"
)

// MaxImagesPerUser is the number of stored images after which the upload
// form is no longer offered. It is checked when rendering, not when writing.
const MaxImagesPerUser = 5

type Image struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	StoragePath  string    `db:"storage_path"` // {username}/{filename}
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	Description  string    `db:"description"`
	Tags         string    `db:"tags"`   // "#dog #outdoor"
	Colors       string    `db:"colors"` // "white black"
	Result       string    `db:"result"` // Raw analysis response, empty when not annotated
	CreatedAt    time.Time `db:"created_at"`
}

// Filename returns the stored file name without the owner folder.
func (i *Image) Filename() string {
	return path.Base(i.StoragePath)
}

// Annotated reports whether any annotation field was filled.
func (i *Image) Annotated() bool {
	return i.Description != "" || i.Tags != "" || i.Colors != ""
}
