// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all FabricAI
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fabricai/internal/models"
)

// FabricStore handles all fabric-related database operations.
type FabricStore struct {
	db *sql.DB
}

// NewFabricStore creates a new FabricStore with the given database connection.
func NewFabricStore(db *sql.DB) *FabricStore {
	return &FabricStore{db: db}
}

const fabricColumns = `id, name, description, preview_image_url, texture_prompt, is_active, created_at`

// List returns all fabrics ordered by creation time descending. The admin
// view shows everything; inactive entries are a display concern there.
func (s *FabricStore) List() ([]models.Fabric, error) {
	return s.list(false)
}

// ListActive returns only active fabrics, newest first. This is the
// end-user catalog view.
func (s *FabricStore) ListActive() ([]models.Fabric, error) {
	return s.list(true)
}

func (s *FabricStore) list(activeOnly bool) ([]models.Fabric, error) {
	query := `SELECT ` + fabricColumns + ` FROM fabrics`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list fabrics: %w", err)
	}
	defer rows.Close()

	var fabrics []models.Fabric
	for rows.Next() {
		var f models.Fabric
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Description, &f.PreviewImageURL,
			&f.TexturePrompt, &f.IsActive, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fabric: %w", err)
		}
		fabrics = append(fabrics, f)
	}
	return fabrics, rows.Err()
}

// FindByID retrieves a fabric by its UUID. Returns nil if not found.
func (s *FabricStore) FindByID(id uuid.UUID) (*models.Fabric, error) {
	f := &models.Fabric{}
	err := s.db.QueryRow(`
		SELECT `+fabricColumns+` FROM fabrics WHERE id = $1
	`, id).Scan(
		&f.ID, &f.Name, &f.Description, &f.PreviewImageURL,
		&f.TexturePrompt, &f.IsActive, &f.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find fabric by id: %w", err)
	}
	return f, nil
}

// Create inserts a new fabric. previewURL may be nil when no image was uploaded.
func (s *FabricStore) Create(name, description, texturePrompt string, previewURL *string) (*models.Fabric, error) {
	f := &models.Fabric{}
	err := s.db.QueryRow(`
		INSERT INTO fabrics (name, description, texture_prompt, preview_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+fabricColumns+`
	`, name, description, texturePrompt, previewURL).Scan(
		&f.ID, &f.Name, &f.Description, &f.PreviewImageURL,
		&f.TexturePrompt, &f.IsActive, &f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create fabric: %w", err)
	}
	return f, nil
}

// Update modifies a fabric's editable fields. A nil previewURL preserves
// the previously stored preview image.
func (s *FabricStore) Update(id uuid.UUID, name, description, texturePrompt string, previewURL *string) (*models.Fabric, error) {
	f := &models.Fabric{}
	err := s.db.QueryRow(`
		UPDATE fabrics
		SET name = $2, description = $3, texture_prompt = $4,
		    preview_image_url = COALESCE($5, preview_image_url)
		WHERE id = $1
		RETURNING `+fabricColumns+`
	`, id, name, description, texturePrompt, previewURL).Scan(
		&f.ID, &f.Name, &f.Description, &f.PreviewImageURL,
		&f.TexturePrompt, &f.IsActive, &f.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update fabric: %w", err)
	}
	return f, nil
}

// SetActive toggles a fabric's visibility in the end-user catalog.
func (s *FabricStore) SetActive(id uuid.UUID, active bool) error {
	res, err := s.db.Exec(`UPDATE fabrics SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set fabric active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set fabric active: fabric %s not found", id)
	}
	return nil
}

// Delete removes a fabric. Its colors go with it via the schema cascade.
func (s *FabricStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM fabrics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fabric: %w", err)
	}
	return nil
}
