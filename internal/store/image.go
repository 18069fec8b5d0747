// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fabricai/internal/models"
)

// ImageStore handles saved-image database operations for the gallery.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore creates a new ImageStore with the given database connection.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, folder_id, name, image_url, thumb_url, created_by, created_at`

// List returns saved images newest first. A nil folderID means the
// virtual "all images" view: no folder filter at all.
func (s *ImageStore) List(folderID *uuid.UUID) ([]models.SavedImage, error) {
	query := `SELECT ` + imageColumns + ` FROM saved_images`
	args := []any{}
	if folderID != nil {
		query += ` WHERE folder_id = $1`
		args = append(args, *folderID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saved images: %w", err)
	}
	defer rows.Close()

	var images []models.SavedImage
	for rows.Next() {
		var img models.SavedImage
		if err := rows.Scan(
			&img.ID, &img.FolderID, &img.Name, &img.ImageURL,
			&img.ThumbURL, &img.CreatedBy, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan saved image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Count returns the unfiltered total number of saved images. The gallery
// header always shows this regardless of the active folder filter.
func (s *ImageStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM saved_images`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count saved images: %w", err)
	}
	return count, nil
}

// FindByID retrieves a saved image by its UUID. Returns nil if not found.
func (s *ImageStore) FindByID(id uuid.UUID) (*models.SavedImage, error) {
	img := &models.SavedImage{}
	err := s.db.QueryRow(`
		SELECT `+imageColumns+` FROM saved_images WHERE id = $1
	`, id).Scan(
		&img.ID, &img.FolderID, &img.Name, &img.ImageURL,
		&img.ThumbURL, &img.CreatedBy, &img.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find saved image by id: %w", err)
	}
	return img, nil
}

// Create inserts a saved image. folderID and thumbURL may be nil.
func (s *ImageStore) Create(folderID *uuid.UUID, name, imageURL string, thumbURL *string, createdBy string) (*models.SavedImage, error) {
	img := &models.SavedImage{}
	err := s.db.QueryRow(`
		INSERT INTO saved_images (folder_id, name, image_url, thumb_url, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+imageColumns+`
	`, folderID, name, imageURL, thumbURL, createdBy).Scan(
		&img.ID, &img.FolderID, &img.Name, &img.ImageURL,
		&img.ThumbURL, &img.CreatedBy, &img.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create saved image: %w", err)
	}
	return img, nil
}

// Delete removes a saved image by ID.
func (s *ImageStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM saved_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved image: %w", err)
	}
	return nil
}
