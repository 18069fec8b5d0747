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

// FolderStore handles gallery folder database operations.
type FolderStore struct {
	db *sql.DB
}

// NewFolderStore creates a new FolderStore with the given database connection.
func NewFolderStore(db *sql.DB) *FolderStore {
	return &FolderStore{db: db}
}

// List returns all folders with their image counts, ordered by name.
func (s *FolderStore) List() ([]models.Folder, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.name, f.created_by, f.created_at, COUNT(si.id)
		FROM folders f
		LEFT JOIN saved_images si ON si.folder_id = f.id
		GROUP BY f.id, f.name, f.created_by, f.created_at
		ORDER BY f.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedBy, &f.CreatedAt, &f.ImageCount); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FindByID retrieves a folder by its UUID. Returns nil if not found.
func (s *FolderStore) FindByID(id uuid.UUID) (*models.Folder, error) {
	f := &models.Folder{}
	err := s.db.QueryRow(`
		SELECT id, name, created_by, created_at FROM folders WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.CreatedBy, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find folder by id: %w", err)
	}
	return f, nil
}

// Create inserts a new folder.
func (s *FolderStore) Create(name, createdBy string) (*models.Folder, error) {
	f := &models.Folder{}
	err := s.db.QueryRow(`
		INSERT INTO folders (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, created_by, created_at
	`, name, createdBy).Scan(&f.ID, &f.Name, &f.CreatedBy, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

// Rename changes a folder's name.
func (s *FolderStore) Rename(id uuid.UUID, name string) error {
	res, err := s.db.Exec(`UPDATE folders SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rename folder: folder %s not found", id)
	}
	return nil
}

// Delete removes a folder. The saved_images cascade rule removes every
// image row assigned to it in the same statement, so the "all images"
// total drops by exactly the folder's count.
func (s *FolderStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}
