package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"admaker/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("genai: api key is required")

// ErrNoImage indicates the model responded without any image output. Callers
// treat it as a generation failure, never as success-with-null.
var ErrNoImage = errors.New("genai: no image output in response")

// APIError is a non-2xx answer from the Gemini API. Status and Retry-After
// are preserved so the retry policy can classify the failure.
type APIError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("genai: status %d", e.Status)
	}
	return fmt.Sprintf("genai: status %d: %s", e.Status, e.Message)
}

// Options configures the Gemini client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client performs HTTP calls against the Gemini generateContent API. It is
// model-agnostic; callers pass the model per request so the same client serves
// both the vision model and the image models.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with a long timeout will be created.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Complete sends the reference image plus a text instruction to a vision model
// and returns the first text output.
func (c *Client) Complete(ctx context.Context, model string, image []byte, mimeType, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{MimeType: normalizeMIME(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
			},
		}},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, model, payload, &response); err != nil {
		return "", err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", errors.New("genai: no text output in response")
}

// GenerateImage sends the reference image plus a prompt to an image model and
// returns the first image-typed output as raw bytes. aspectRatio may be empty
// to use the backend default.
func (c *Client) GenerateImage(ctx context.Context, model string, image []byte, mimeType, prompt, aspectRatio string) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	cfg := &geminiGenerationConfig{ResponseModalities: []string{"IMAGE"}}
	if strings.TrimSpace(aspectRatio) != "" {
		cfg.ImageConfig = &geminiImageConfig{AspectRatio: strings.TrimSpace(aspectRatio)}
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{MimeType: normalizeMIME(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
			},
		}},
		GenerationConfig: cfg,
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, model, payload, &response); err != nil {
		return nil, err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			if !strings.HasPrefix(strings.ToLower(part.InlineData.MimeType), "image/") {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("genai: decode inline data: %w", err)
			}
			if len(data) > 0 {
				return data, nil
			}
		}
	}
	return nil, ErrNoImage
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("genai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("genai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("genai: invoke %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
		var envelope geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("model", model).
			Dur("elapsed", time.Since(start)).
			Msg("genai: api error")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("genai: decode response: %w", err)
	}
	c.logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Msg("genai: request ok")
	return nil
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(header); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
	}
	return 0
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch mimeType {
	case "image/jpg", "":
		return "image/jpeg"
	default:
		return mimeType
	}
}

// VisionModel binds the client to a fixed vision model so consumers depend on
// a single-method contract.
type VisionModel struct {
	client *Client
	model  string
}

// NewVisionModel wraps the client with the configured vision model.
func NewVisionModel(client *Client, model string) *VisionModel {
	return &VisionModel{client: client, model: model}
}

// Complete proxies to Client.Complete with the bound model.
func (v *VisionModel) Complete(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	if v == nil || v.client == nil {
		return "", ErrMissingAPIKey
	}
	return v.client.Complete(ctx, v.model, image, mimeType, prompt)
}
