// Package imagegen is a small client for an OpenAI-compatible image
// generation endpoint.
package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/telemetry"
)

const (
	defaultModel   = "dall-e-3"
	defaultSize    = "1792x1024"
	defaultQuality = "standard"
)

// promptTemplate is filled with make and model.
const promptTemplate = "Professional automotive studio photograph of a %s %s, side 3/4 view, " +
	"dark moody background, dramatic studio lighting, high-end car photography, " +
	"ultra detailed, 8k quality"

// Client calls POST {base}/images/generations.
type Client struct {
	http *resty.Client
	key  string
}

// Params overrides the generation defaults.
type Params struct {
	Model   string
	Size    string
	Quality string
}

type generationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type generationResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewClient creates a client for baseURL (e.g. "https://api.openai.com/v1").
// An empty apiKey yields a client whose Enabled reports false.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	telemetry.InstrumentResty(client, "carposter/imagegen")
	return &Client{http: client, key: apiKey}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c != nil && c.key != "" }

// Prompt returns the studio prompt for a vehicle.
func Prompt(make, model string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(make), strings.TrimSpace(model))
}

// Generate requests one image for prompt and returns its URL.
func (c *Client) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if !c.Enabled() {
		return "", models.NewPosterError(models.ErrCodeGenerationAuth, "image generation API key not configured", nil)
	}

	body := generationRequest{
		Model:   orDefault(params.Model, defaultModel),
		Prompt:  prompt,
		Size:    orDefault(params.Size, defaultSize),
		Quality: orDefault(params.Quality, defaultQuality),
		N:       1,
	}

	var out generationResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/images/generations")
	if err != nil {
		return "", models.NewPosterError(models.ErrCodeGenerationFailed, "image generation request failed", err)
	}
	if resp.IsError() {
		return "", classifyError(resp.StatusCode(), apiErr.Error.Message)
	}

	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", models.NewPosterError(models.ErrCodeGenerationFailed, "image generation returned no image", nil)
	}
	return out.Data[0].URL, nil
}

// classifyError maps HTTP status codes to generation error codes.
func classifyError(statusCode int, msg string) *models.PosterError {
	if msg == "" {
		msg = "image generation API error"
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewPosterError(models.ErrCodeGenerationAuth, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewPosterError(models.ErrCodeGenerationLimit, msg, nil)
	default:
		return models.NewPosterError(models.ErrCodeGenerationFailed, fmt.Sprintf("image API returned %d: %s", statusCode, msg), nil)
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
