// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings, used to build readable object storage keys out of fabric,
// color, and gallery image names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Velluto Verde 2026" → "velluto-verde-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// File produces a slug bounded to maxLen characters, trimming at a hyphen
// so no word is cut in half. Returns fallback when the input slugs to
// nothing (e.g. all punctuation).
func File(s, fallback string, maxLen int) string {
	result := Generate(s)
	if len(result) > maxLen {
		result = result[:maxLen]
		if i := strings.LastIndex(result, "-"); i > 0 {
			result = result[:i]
		}
	}
	if result == "" {
		return fallback
	}
	return result
}
