// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultFabric is one built-in catalog entry installed on first run.
type defaultFabric struct {
	name          string
	description   string
	texturePrompt string
}

// defaultFabrics are the starter materials. The merge rule is by name:
// rows already present in the store always win; defaults only fill gaps.
var defaultFabrics = []defaultFabric{
	{"velvet", "Velluto", "luxurious velvet fabric with a deep, soft pile and subtle sheen"},
	{"leather", "Pelle", "genuine leather with natural grain and a soft matte finish"},
	{"linen", "Lino", "natural linen fabric with visible weave and a relaxed drape"},
	{"microfiber", "Microfibra", "soft microfiber fabric with a smooth, even surface"},
	{"cotton", "Cotone", "high-quality cotton fabric with a crisp, tight weave"},
	{"bouclé", "Bouclé", "textured bouclé fabric with looped, nubby yarns"},
}

// SeedCatalog installs the default fabrics that are not already present.
// It runs on every startup so a wiped catalog recovers its baseline, while
// admin-curated entries are never overwritten.
func SeedCatalog(db *sql.DB) error {
	var inserted int
	for _, f := range defaultFabrics {
		res, err := db.Exec(`
			INSERT INTO fabrics (name, description, texture_prompt)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, f.name, f.description, f.texturePrompt)
		if err != nil {
			return fmt.Errorf("seed fabric %q: %w", f.name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if inserted > 0 {
		slog.Info("catalog seeded with default fabrics", "inserted", inserted)
	}
	return nil
}

// SeedAdmin creates a default admin user if no users exist yet.
// Intended for development environments only.
func SeedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, full_name, role, plan)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@fabricai.local", string(hash), "Admin", "admin", "business")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@fabricai.local",
		"password", "admin",
	)

	return nil
}
