// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Fabric is a catalog entry describing an upholstery material. Fabrics are
// never hard-deleted from the end-user view; they are hidden by clearing
// IsActive instead.
type Fabric struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PreviewImageURL *string   `json:"preview_image_url,omitempty"`
	TexturePrompt   string    `json:"texture_prompt"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Color is a child of a Fabric: a named colorway with a hex value and a
// mandatory preview image. Colors are removed together with their fabric.
type Color struct {
	ID              uuid.UUID `json:"id"`
	FabricID        uuid.UUID `json:"fabric_id"`
	Name            string    `json:"name"`
	HexValue        string    `json:"hex_value"`
	PreviewImageURL string    `json:"preview_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}
