// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// maxAttempts is the total submission budget per edit request,
	// including the first try.
	maxAttempts = 3

	// retryStep is the base unit of the backoff schedule. The wait before
	// attempt n+1 is n*retryStep: 2s, then 4s. The schedule grows linearly,
	// not by doubling.
	retryStep = 2 * time.Second

	// editTimeout bounds a single provider call. The model can take close
	// to two minutes on large inputs.
	editTimeout = 120 * time.Second
)

// GeminiConfig holds the credentials and settings for the Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// geminiProvider implements Provider using the Google Gemini REST API
// (POST /v1beta/models/{model}:generateContent) with image response
// modalities enabled.
type geminiProvider struct {
	config GeminiConfig
	client *http.Client
	sleep  func(time.Duration)
}

// NewGemini creates the Gemini image-edit provider.
func NewGemini(cfg GeminiConfig) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
	}
	return &geminiProvider{
		config: cfg,
		client: &http.Client{Timeout: editTimeout},
		sleep:  time.Sleep,
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// EditImage submits the edit request, retrying on transient overload.
// Attempts are strictly sequential: attempt n+1 never starts before
// attempt n has failed and its backoff delay has elapsed. Any error that
// does not carry the overload signal aborts immediately; on exhaustion
// the last error is returned.
func (p *geminiProvider) EditImage(ctx context.Context, req EditRequest) (*EditResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := p.submit(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isTransientOverload(err) || attempt == maxAttempts {
			return nil, err
		}

		delay := time.Duration(attempt) * retryStep
		slog.Warn("gemini overloaded, retrying",
			"attempt", attempt,
			"delay", delay.String(),
		)
		p.sleep(delay)
	}
	return nil, lastErr
}

// submit performs a single generateContent call.
func (p *geminiProvider) submit(ctx context.Context, req EditRequest) (*EditResult, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = p.config.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: no API key configured")
	}

	parts := make([]geminiPart, 0, len(req.Images)+1)
	for _, img := range req.Images {
		mime := img.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: mime, Data: img.Data},
		})
	}
	parts = append(parts, geminiPart{Text: req.Instruction})

	body := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		p.config.BaseURL, p.config.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini unmarshal: %w", err)
	}

	return extractResult(&result), nil
}

// extractResult scans response parts in order and returns the first image
// part found. When no image part exists the model's text explanation is
// collected instead, a normal but unsuccessful outcome.
func extractResult(resp *geminiResponse) *EditResult {
	var texts []string
	for _, c := range resp.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return &EditResult{ImageBase64: part.InlineData.Data, MimeType: mime}
			}
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
		}
	}
	return &EditResult{Text: strings.Join(texts, "\n")}
}

// isTransientOverload reports whether the error carries the provider's
// overload signal. Only these failures are worth retrying; everything
// else (bad key, safety block, malformed request) is terminal.
func isTransientOverload(err error) bool {
	return err != nil && strings.Contains(err.Error(), "503")
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
