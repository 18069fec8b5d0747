// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"fabricai/internal/ai"
	"fabricai/internal/middleware"
	"fabricai/internal/store"
)

// Generate is the handler group for the image-edit gateway endpoint.
type Generate struct {
	provider   ai.Provider
	usageStore *store.UsageStore
	userStore  *store.UserStore
	defaultKey string
}

// NewGenerate creates the gateway handler. usageStore and userStore may be
// nil; usage recording is best-effort and never blocks a generation.
func NewGenerate(provider ai.Provider, usageStore *store.UsageStore, userStore *store.UserStore, defaultKey string) *Generate {
	return &Generate{
		provider:   provider,
		usageStore: usageStore,
		userStore:  userStore,
		defaultKey: defaultKey,
	}
}

// editRequest is the wire shape of POST /api/gemini/edit. Two variants
// share it: the legacy single-image shape (imageBase64 + prompt) and the
// dual-image shape (sofa photo + fabric sample).
type editRequest struct {
	ImageBase64       string `json:"imageBase64"`
	Prompt            string `json:"prompt"`
	SofaImageBase64   string `json:"sofaImageBase64"`
	FabricImageBase64 string `json:"fabricImageBase64"`
	APIKey            string `json:"apiKey"`
	OutputMode        string `json:"outputMode"`
}

// Edit handles POST /api/gemini/edit. It validates the request shape,
// resolves the API key, submits to the provider, and answers with the raw
// base64 of the generated image.
func (g *Generate) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decodeBody(w, r, &req) {
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = g.defaultKey
	}
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "API key required. Set GOOGLE_API_KEY or pass apiKey in request.")
		return
	}

	mode := ai.ParseMode(req.OutputMode)

	var images []ai.InlineImage
	var instruction string

	// The dual shape takes precedence when either of its fields is set.
	if req.SofaImageBase64 != "" || req.FabricImageBase64 != "" {
		if req.SofaImageBase64 == "" || req.FabricImageBase64 == "" {
			writeError(w, http.StatusBadRequest, "Both sofa image and fabric texture image are required.")
			return
		}
		images = []ai.InlineImage{
			{MimeType: "image/jpeg", Data: stripDataURI(req.SofaImageBase64)},
			{MimeType: "image/jpeg", Data: stripDataURI(req.FabricImageBase64)},
		}
		instruction = ai.BuildInstruction(mode, ai.DualImageDescription)
	} else {
		if req.ImageBase64 == "" {
			writeError(w, http.StatusBadRequest, "Image is required.")
			return
		}
		images = []ai.InlineImage{
			{MimeType: "image/jpeg", Data: stripDataURI(req.ImageBase64)},
		}
		instruction = ai.BuildInstruction(mode, req.Prompt)
	}

	result, err := g.provider.EditImage(r.Context(), ai.EditRequest{
		Images:      images,
		Instruction: instruction,
		APIKey:      req.APIKey, // empty means the provider uses its configured default
	})
	if err != nil {
		slog.Error("image edit failed", "provider", g.provider.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !result.HasImage() {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "No image generated",
			"message": result.Text,
		})
		return
	}

	g.recordUsage(r, string(mode))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"image":   result.ImageBase64,
	})
}

// recordUsage inserts a generations row and bumps the caller's counter.
// Failures are logged and swallowed: accounting never fails a generation.
func (g *Generate) recordUsage(r *http.Request, mode string) {
	if g.usageStore == nil {
		return
	}

	var userID *uuid.UUID
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		id := sess.UserID
		userID = &id
	}

	if err := g.usageStore.Record(userID, mode); err != nil {
		slog.Warn("usage record failed", "error", err)
		return
	}
	if userID != nil && g.userStore != nil {
		if err := g.userStore.IncrementGenerations(*userID); err != nil {
			slog.Warn("generation counter update failed", "error", err)
		}
	}
}
