package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: fn},
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestCallsWithoutCredentials(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.HasCredentials() {
		t.Fatal("HasCredentials() = true without an API key")
	}
	if _, err := client.GenerateImage(context.Background(), "m", nil, "", "p", "1:1"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("GenerateImage() error = %v, want ErrMissingAPIKey", err)
	}
	if _, err := client.Complete(context.Background(), "m", nil, "", "p"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Complete() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerateImageRequestShape(t *testing.T) {
	imageBytes := []byte("generated")
	var captured *http.Request
	var capturedBody []byte

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		capturedBody, _ = io.ReadAll(r.Body)
		reply := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{
						"inlineData": map[string]string{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(imageBytes),
						},
					}},
				},
			}},
		}
		body, _ := json.Marshal(reply)
		return jsonResponse(http.StatusOK, string(body)), nil
	})

	got, err := client.GenerateImage(context.Background(), "image-model", []byte("ref"), "image/jpg", "the prompt", "16:9")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if string(got) != "generated" {
		t.Errorf("image = %q, want %q", got, "generated")
	}

	if captured.Header.Get("x-goog-api-key") != "test-key" {
		t.Error("api key header missing")
	}
	if !strings.Contains(captured.URL.Path, "models/image-model:generateContent") {
		t.Errorf("path = %s", captured.URL.Path)
	}

	var payload geminiGenerateContentRequest
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	parts := payload.Contents[0].Parts
	if parts[0].Text != "the prompt" {
		t.Errorf("prompt part = %q", parts[0].Text)
	}
	if parts[1].InlineData.MimeType != "image/jpeg" {
		t.Errorf("mime = %q, want normalized image/jpeg", parts[1].InlineData.MimeType)
	}
	if payload.GenerationConfig.ImageConfig.AspectRatio != "16:9" {
		t.Errorf("aspect ratio = %q", payload.GenerationConfig.ImageConfig.AspectRatio)
	}
	if len(payload.GenerationConfig.ResponseModalities) != 1 || payload.GenerationConfig.ResponseModalities[0] != "IMAGE" {
		t.Errorf("response modalities = %v", payload.GenerationConfig.ResponseModalities)
	}
}

func TestGenerateImageOmitsUnsetAspectRatio(t *testing.T) {
	var capturedBody []byte
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		capturedBody, _ = io.ReadAll(r.Body)
		return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
	})

	_, err := client.GenerateImage(context.Background(), "m", nil, "image/png", "p", "  ")
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("GenerateImage() error = %v, want ErrNoImage", err)
	}
	if strings.Contains(string(capturedBody), "imageConfig") {
		t.Errorf("imageConfig sent for blank aspect ratio: %s", capturedBody)
	}
}

func TestGenerateImageNoImageOutput(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"I cannot do that"}]}}]}`), nil
	})

	if _, err := client.GenerateImage(context.Background(), "m", nil, "", "p", "1:1"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("GenerateImage() error = %v, want ErrNoImage", err)
	}
}

func TestInvokeAPIError(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		resp := jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`)
		resp.Header.Set("Retry-After", "17")
		return resp, nil
	})

	_, err := client.GenerateImage(context.Background(), "m", nil, "", "p", "1:1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", apiErr.Status)
	}
	if apiErr.Message != "quota exceeded" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.RetryAfter != 17*time.Second {
		t.Errorf("retry after = %v, want 17s", apiErr.RetryAfter)
	}
}

func TestCompleteReturnsText(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  (sage, cream)\n"}]}}]}`), nil
	})

	text, err := client.Complete(context.Background(), "vision", []byte("img"), "image/png", "suggest colors")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "(sage, cream)" {
		t.Errorf("text = %q, want trimmed reply", text)
	}
}

func TestVisionModelBindsModel(t *testing.T) {
	var path string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`), nil
	})

	vision := NewVisionModel(client, "vision-model")
	if _, err := vision.Complete(context.Background(), []byte("img"), "image/png", "p"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(path, "vision-model") {
		t.Errorf("path = %s, want bound model", path)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("30"); d != 30*time.Second {
		t.Errorf("parseRetryAfter(30) = %v", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Errorf("parseRetryAfter(empty) = %v", d)
	}
	if d := parseRetryAfter("not-a-number"); d != 0 {
		t.Errorf("parseRetryAfter(garbage) = %v", d)
	}
	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	if d := parseRetryAfter(future); d <= 0 || d > 90*time.Second {
		t.Errorf("parseRetryAfter(http date) = %v", d)
	}
}
