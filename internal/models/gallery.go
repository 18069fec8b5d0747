// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups saved images in the gallery. Deleting a folder removes all
// images assigned to it (enforced by the schema's cascade rule).
type Folder struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	ImageCount int       `json:"image_count"`
}

// SavedImage is a generation result archived to object storage. A nil
// FolderID means the image only appears in the virtual "all images" view.
type SavedImage struct {
	ID        uuid.UUID  `json:"id"`
	FolderID  *uuid.UUID `json:"folder_id,omitempty"`
	Name      string     `json:"name"`
	ImageURL  string     `json:"image_url"`
	ThumbURL  *string    `json:"thumb_url,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}
