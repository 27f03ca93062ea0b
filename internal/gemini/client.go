// Package gemini is a minimal REST client for the generateContent endpoint,
// covering only text-to-image generation with an optional reference image.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const continuityInstruction = "Here is the previous frame in our process sequence. " +
	"Generate the next frame maintaining the same visual style, perspective, and color palette:"

var ErrNoImage = errors.New("no image in response")

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		model:      model,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// GenerateImage requests one image for prompt. When previous is non-nil its
// bytes are included in the request so the model keeps the visual style of
// the earlier frame.
func (c *Client) GenerateImage(ctx context.Context, prompt string, previous *Image) (Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Image{}, errors.New("prompt is empty")
	}

	var parts []part
	if previous != nil {
		parts = []part{
			{Text: continuityInstruction},
			{InlineData: &blob{MimeType: previous.MimeType, Data: previous.Data}},
			{Text: "Now generate the next frame:\n\n" + prompt},
		}
	} else {
		parts = []part{{Text: prompt}}
	}

	req := generateContentRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	return c.generateContent(ctx, req)
}

func (c *Client) generateContent(ctx context.Context, payload generateContentRequest) (Image, error) {
	if c.httpClient == nil {
		return Image{}, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Image{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.baseURL, c.apiVersion, c.model, url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Image{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	c.logger.Debug("calling generateContent", "model", c.model, "bytes", len(body))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Image{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return Image{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return Image{}, fmt.Errorf("decode response: %w", err)
	}

	// The API reports quota and safety problems inside a 200 body.
	if decoded.Error != nil {
		message := strings.TrimSpace(decoded.Error.Message)
		if message == "" {
			message = "unknown error"
		}
		return Image{}, fmt.Errorf("gemini API: %s", message)
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return Image{
					MimeType: p.InlineData.MimeType,
					Data:     p.InlineData.Data,
				}, nil
			}
		}
	}

	return Image{}, ErrNoImage
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
