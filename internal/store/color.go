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

// ColorStore handles colorway database operations.
type ColorStore struct {
	db *sql.DB
}

// NewColorStore creates a new ColorStore with the given database connection.
func NewColorStore(db *sql.DB) *ColorStore {
	return &ColorStore{db: db}
}

// ListByFabric returns a fabric's colors, newest first.
func (s *ColorStore) ListByFabric(fabricID uuid.UUID) ([]models.Color, error) {
	rows, err := s.db.Query(`
		SELECT id, fabric_id, name, hex_value, preview_image_url, created_at
		FROM colors WHERE fabric_id = $1 ORDER BY created_at DESC
	`, fabricID)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()

	var colors []models.Color
	for rows.Next() {
		var c models.Color
		if err := rows.Scan(
			&c.ID, &c.FabricID, &c.Name, &c.HexValue, &c.PreviewImageURL, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

// FindByID retrieves a color by its UUID. Returns nil if not found.
func (s *ColorStore) FindByID(id uuid.UUID) (*models.Color, error) {
	c := &models.Color{}
	err := s.db.QueryRow(`
		SELECT id, fabric_id, name, hex_value, preview_image_url, created_at
		FROM colors WHERE id = $1
	`, id).Scan(&c.ID, &c.FabricID, &c.Name, &c.HexValue, &c.PreviewImageURL, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find color by id: %w", err)
	}
	return c, nil
}

// Create inserts a new color under a fabric. The preview image URL is
// mandatory: callers upload the image first and abort on failure, so a
// color row never exists without its swatch.
func (s *ColorStore) Create(fabricID uuid.UUID, name, hexValue, previewURL string) (*models.Color, error) {
	c := &models.Color{}
	err := s.db.QueryRow(`
		INSERT INTO colors (fabric_id, name, hex_value, preview_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, fabric_id, name, hex_value, preview_image_url, created_at
	`, fabricID, name, hexValue, previewURL).Scan(
		&c.ID, &c.FabricID, &c.Name, &c.HexValue, &c.PreviewImageURL, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create color: %w", err)
	}
	return c, nil
}

// Delete removes a color by ID.
func (s *ColorStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM colors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete color: %w", err)
	}
	return nil
}
