// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides the image-edit gateway to the external generative
// model. It builds deterministic edit instructions from the two supported
// output modes and submits images to the Gemini API with a bounded retry
// on transient overload errors.
package ai

import "context"

// InlineImage is one input image for an edit request. Data is the raw
// base64 payload without any data-URI prefix; MIME type is assumed JPEG
// by callers that re-encode uploads client-side.
type InlineImage struct {
	MimeType string
	Data     string
}

// EditRequest carries everything needed for one submission to the provider.
// APIKey overrides the server-held default when non-empty.
type EditRequest struct {
	Images      []InlineImage
	Instruction string
	APIKey      string
}

// EditResult is the normalized outcome of a provider call. Exactly one of
// ImageBase64 or Text is meaningful: when the model returns no image part,
// ImageBase64 is empty and Text carries the model's explanation. This is a
// soft outcome, not an error.
type EditResult struct {
	ImageBase64 string
	MimeType    string
	Text        string
}

// HasImage reports whether the provider returned an image part.
func (r *EditResult) HasImage() bool {
	return r.ImageBase64 != ""
}

// Provider is the external image-edit capability. Implementations handle
// their own HTTP communication, retry policy, and response parsing.
type Provider interface {
	// EditImage submits the request and returns the normalized result.
	// A response without an image part is returned as a result, not an
	// error; errors indicate the call itself failed.
	EditImage(ctx context.Context, req EditRequest) (*EditResult, error)

	// Name returns the provider identifier (e.g., "gemini").
	Name() string
}
