// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the FabricAI JSON API:
// the generation gateway, the fabric catalog, the gallery, admin user
// management, usage reporting, and authentication.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	// maxBodySize caps JSON request bodies. Base64-encoded photos arrive
	// inline, so this is sized for images, not forms (50 MB).
	maxBodySize = 50 << 20
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the standard error envelope {success:false, error:msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// decodeBody decodes a JSON request body into dst with the body size cap
// applied. Returns false after writing a 400 if the body is unparseable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// stripDataURI removes a "data:<type>;base64," prefix if present, so both
// raw base64 and data-URI payloads are accepted on input. Output is always
// raw base64.
func stripDataURI(s string) string {
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx != -1 {
			return s[idx+1:]
		}
	}
	return s
}
