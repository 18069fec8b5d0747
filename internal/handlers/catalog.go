// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fabricai/internal/slug"
	"fabricai/internal/storage"
	"fabricai/internal/store"
)

// Catalog groups the fabric and color handlers. Public endpoints serve the
// end-user picker; admin endpoints manage the catalog.
type Catalog struct {
	fabrics *store.FabricStore
	colors  *store.ColorStore
	storage *storage.Client
}

// NewCatalog creates the catalog handler group. storage may be nil when
// object storage is not configured; image uploads then fail with 503.
func NewCatalog(fabrics *store.FabricStore, colors *store.ColorStore, storage *storage.Client) *Catalog {
	return &Catalog{fabrics: fabrics, colors: colors, storage: storage}
}

// ListFabrics handles GET /api/fabrics: active fabrics only, newest first.
func (c *Catalog) ListFabrics(w http.ResponseWriter, r *http.Request) {
	fabrics, err := c.fabrics.ListActive()
	if err != nil {
		slog.Error("list fabrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fabrics)
}

// ListAllFabrics handles GET /api/admin/fabrics: every fabric including
// hidden ones.
func (c *Catalog) ListAllFabrics(w http.ResponseWriter, r *http.Request) {
	fabrics, err := c.fabrics.List()
	if err != nil {
		slog.Error("list all fabrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fabrics)
}

// ListColors handles GET /api/fabrics/{id}/colors.
func (c *Catalog) ListColors(w http.ResponseWriter, r *http.Request) {
	fabricID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fabric ID.")
		return
	}

	colors, err := c.colors.ListByFabric(fabricID)
	if err != nil {
		slog.Error("list colors failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, colors)
}

// CreateFabric handles POST /api/admin/fabrics (multipart). The preview
// image is optional.
func (c *Catalog) CreateFabric(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Fabric name is required.")
		return
	}

	previewURL, err := c.uploadFormImage(r, "image", "fabrics")
	if err != nil {
		slog.Error("fabric preview upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fabric, err := c.fabrics.Create(name, r.FormValue("description"), r.FormValue("texture_prompt"), previewURL)
	if err != nil {
		slog.Error("create fabric failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, fabric)
}

// UpdateFabric handles PUT /api/admin/fabrics/{id} (multipart). Without a
// new file the stored preview URL is preserved.
func (c *Catalog) UpdateFabric(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fabric ID.")
		return
	}

	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Fabric name is required.")
		return
	}

	previewURL, err := c.uploadFormImage(r, "image", "fabrics")
	if err != nil {
		slog.Error("fabric preview upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fabric, err := c.fabrics.Update(id, name, r.FormValue("description"), r.FormValue("texture_prompt"), previewURL)
	if err != nil {
		slog.Error("update fabric failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if fabric == nil {
		writeError(w, http.StatusNotFound, "Fabric not found.")
		return
	}
	writeJSON(w, http.StatusOK, fabric)
}

// SetFabricActive handles PUT /api/admin/fabrics/{id}/active. Failures
// surface verbatim so the client reloads from the source of truth.
func (c *Catalog) SetFabricActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fabric ID.")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := c.fabrics.SetActive(id, req.IsActive); err != nil {
		slog.Error("set fabric active failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// CreateColor handles POST /api/admin/fabrics/{id}/colors (multipart).
// The swatch image is mandatory and is uploaded before the row insert, so
// an upload failure aborts without any DB write.
func (c *Catalog) CreateColor(w http.ResponseWriter, r *http.Request) {
	fabricID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fabric ID.")
		return
	}

	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Color name is required.")
		return
	}

	fabric, err := c.fabrics.FindByID(fabricID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if fabric == nil {
		writeError(w, http.StatusNotFound, "Fabric not found.")
		return
	}

	previewURL, err := c.uploadFormImage(r, "image", "colors")
	if err != nil {
		slog.Error("color swatch upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if previewURL == nil {
		writeError(w, http.StatusBadRequest, "Color preview image is required.")
		return
	}

	color, err := c.colors.Create(fabricID, name, r.FormValue("hex_value"), *previewURL)
	if err != nil {
		slog.Error("create color failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, color)
}

// DeleteColor handles DELETE /api/admin/colors/{id}. Irreversible.
func (c *Catalog) DeleteColor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid color ID.")
		return
	}

	color, err := c.colors.FindByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if color == nil {
		writeError(w, http.StatusNotFound, "Color not found.")
		return
	}

	if err := c.colors.Delete(id); err != nil {
		slog.Error("delete color failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if c.storage != nil {
		c.deleteStoredObject(r, color.PreviewImageURL)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// uploadFormImage reads the named multipart file and stores it under the
// given prefix. Returns (nil, nil) when the field is absent, which callers
// treat as "no new image".
func (c *Catalog) uploadFormImage(r *http.Request, field, prefix string) (*string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	if c.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	url, err := uploadImage(r, c.storage, file, header, prefix)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// deleteStoredObject removes an object by public URL, best-effort.
func (c *Catalog) deleteStoredObject(r *http.Request, rawURL string) {
	key, ok := c.storage.ExtractKey(rawURL)
	if !ok {
		return
	}
	if err := c.storage.Delete(r.Context(), key); err != nil {
		slog.Warn("stored object delete failed", "key", key, "error", err)
	}
}

// uploadImage streams a multipart file into object storage under
// prefix/yyyy/mm/<uuid><ext> and returns its public URL.
func uploadImage(r *http.Request, client *storage.Client, file multipart.File, header *multipart.FileHeader, prefix string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	base := slug.File(strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)), "upload", 60)

	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%s-%s%s", prefix, now.Year(), now.Month(), base, uuid.NewString()[:8], ext)

	return client.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
}
