// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"fabricai/internal/middleware"
	"fabricai/internal/slug"
	"fabricai/internal/storage"
	"fabricai/internal/store"
)

const (
	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// Gallery groups the folder and saved-image handlers.
type Gallery struct {
	folders *store.FolderStore
	images  *store.ImageStore
	storage *storage.Client
}

// NewGallery creates the gallery handler group.
func NewGallery(folders *store.FolderStore, images *store.ImageStore, storage *storage.Client) *Gallery {
	return &Gallery{folders: folders, images: images, storage: storage}
}

// ListFolders handles GET /api/admin/folders.
func (g *Gallery) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := g.folders.List()
	if err != nil {
		slog.Error("list folders failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// CreateFolder handles POST /api/admin/folders.
func (g *Gallery) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Folder name is required.")
		return
	}

	folder, err := g.folders.Create(name, sessionEmail(r))
	if err != nil {
		slog.Error("create folder failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// RenameFolder handles PUT /api/admin/folders/{id}.
func (g *Gallery) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid folder ID.")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Folder name is required.")
		return
	}

	if err := g.folders.Rename(id, name); err != nil {
		slog.Error("rename folder failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteFolder handles DELETE /api/admin/folders/{id}. The schema cascade
// removes the folder's image rows; their S3 objects are removed best-effort.
func (g *Gallery) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid folder ID.")
		return
	}

	// Snapshot the folder's images before the cascade wipes the rows.
	images, err := g.images.List(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := g.folders.Delete(id); err != nil {
		slog.Error("delete folder failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if g.storage != nil {
		for _, img := range images {
			g.deleteStoredObject(r, img.ImageURL)
			if img.ThumbURL != nil {
				g.deleteStoredObject(r, *img.ThumbURL)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListImages handles GET /api/admin/images?folder=all|{id}. The response
// always carries the unfiltered total alongside the filtered list.
func (g *Gallery) ListImages(w http.ResponseWriter, r *http.Request) {
	var folderID *uuid.UUID
	if f := r.URL.Query().Get("folder"); f != "" && f != "all" {
		id, err := uuid.Parse(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid folder ID.")
			return
		}
		folderID = &id
	}

	images, err := g.images.List(folderID)
	if err != nil {
		slog.Error("list images failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := g.images.Count()
	if err != nil {
		slog.Error("count images failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"images": images,
		"total":  total,
	})
}

// saveImageRequest is the wire shape of POST /api/admin/images. Exactly one
// of FolderID or NewFolderName may be set; both empty files the image under
// the virtual "all" view only.
type saveImageRequest struct {
	ImageBase64   string `json:"imageBase64"`
	Name          string `json:"name"`
	FolderID      string `json:"folderId"`
	NewFolderName string `json:"newFolderName"`
}

// SaveImage handles POST /api/admin/images: decodes the base64 payload,
// uploads the JPEG and its thumbnail, then inserts the row. Inline folder
// creation runs first as its own operation; there is no cross-table
// transaction here, so a later failure can leave the new folder behind.
func (g *Gallery) SaveImage(w http.ResponseWriter, r *http.Request) {
	var req saveImageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "Image is required.")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Generated " + time.Now().Format("2006-01-02 15:04")
	}

	newFolderName := strings.TrimSpace(req.NewFolderName)
	if req.NewFolderName != "" && newFolderName == "" {
		writeError(w, http.StatusBadRequest, "Folder name is required.")
		return
	}

	if g.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	data, err := base64.StdEncoding.DecodeString(stripDataURI(req.ImageBase64))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base64 image data.")
		return
	}

	var folderID *uuid.UUID
	switch {
	case newFolderName != "":
		folder, err := g.folders.Create(newFolderName, sessionEmail(r))
		if err != nil {
			slog.Error("inline folder create failed", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		folderID = &folder.ID
	case req.FolderID != "":
		id, err := uuid.Parse(req.FolderID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid folder ID.")
			return
		}
		folderID = &id
	}

	now := time.Now()
	fileID := uuid.NewString()[:8]
	base := slug.File(name, "generated", 60)
	key := fmt.Sprintf("gallery/%d/%02d/%s-%s.jpg", now.Year(), now.Month(), base, fileID)

	imageURL, err := g.storage.Upload(r.Context(), key, "image/jpeg", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Error("gallery upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Thumbnail is best-effort; the full image is the record of truth.
	var thumbURL *string
	thumbData, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err)
	} else if thumbData != nil {
		tk := fmt.Sprintf("gallery/%d/%02d/%s-%s_thumb.jpg", now.Year(), now.Month(), base, fileID)
		url, err := g.storage.Upload(r.Context(), tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData)))
		if err != nil {
			slog.Warn("thumbnail upload failed", "error", err, "key", tk)
		} else {
			thumbURL = &url
		}
	}

	img, err := g.images.Create(folderID, name, imageURL, thumbURL, sessionEmail(r))
	if err != nil {
		slog.Error("save image failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// DeleteImage handles DELETE /api/admin/images/{id}.
func (g *Gallery) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image ID.")
		return
	}

	img, err := g.images.FindByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if img == nil {
		writeError(w, http.StatusNotFound, "Image not found.")
		return
	}

	if err := g.images.Delete(id); err != nil {
		slog.Error("delete image failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if g.storage != nil {
		g.deleteStoredObject(r, img.ImageURL)
		if img.ThumbURL != nil {
			g.deleteStoredObject(r, *img.ThumbURL)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// deleteStoredObject removes an object by public URL, best-effort.
func (g *Gallery) deleteStoredObject(r *http.Request, rawURL string) {
	key, ok := g.storage.ExtractKey(rawURL)
	if !ok {
		return
	}
	if err := g.storage.Delete(r.Context(), key); err != nil {
		slog.Warn("stored object delete failed", "key", key, "error", err)
	}
}

// sessionEmail returns the authenticated user's email, or "system" when no
// session is loaded.
func sessionEmail(r *http.Request) string {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.Email
	}
	return "system"
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	} else {
		return nil, fmt.Errorf("source does not support seeking")
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
