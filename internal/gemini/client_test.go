package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Options{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func imageResponse(mimeType, data string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"here you go"},{"inlineData":{"mimeType":"` +
		mimeType + `","data":"` + data + `"}}]}}]}`
}

func TestGenerateImage(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(imageResponse("image/png", "aGVsbG8=")))
	})

	img, err := client.GenerateImage(context.Background(), "a tan barrel", nil)
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if img.MimeType != "image/png" || img.Data != "aGVsbG8=" {
		t.Errorf("GenerateImage() = %+v, want image/png payload", img)
	}

	if want := "/v1beta/models/gemini-2.0-flash-exp:generateContent"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if gotKey != "test-key" {
		t.Errorf("key query param = %q, want %q", gotKey, "test-key")
	}

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 1 {
		t.Fatalf("parts count = %d, want 1", len(parts))
	}
	if text := parts[0].(map[string]any)["text"]; text != "a tan barrel" {
		t.Errorf("prompt text = %q, want %q", text, "a tan barrel")
	}

	config := gotBody["generationConfig"].(map[string]any)
	modalities := config["responseModalities"].([]any)
	if len(modalities) != 2 || modalities[0] != "TEXT" || modalities[1] != "IMAGE" {
		t.Errorf("responseModalities = %v, want [TEXT IMAGE]", modalities)
	}
}

func TestGenerateImageWithPrevious(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(imageResponse("image/png", "bmV4dA==")))
	})

	previous := &Image{MimeType: "image/png", Data: "cHJldg=="}
	if _, err := client.GenerateImage(context.Background(), "step two", previous); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 3 {
		t.Fatalf("parts count = %d, want 3", len(parts))
	}

	preamble := parts[0].(map[string]any)["text"].(string)
	if !strings.Contains(preamble, "previous frame") {
		t.Errorf("first part %q lacks continuity instruction", preamble)
	}

	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	if inline["mimeType"] != "image/png" || inline["data"] != "cHJldg==" {
		t.Errorf("inlineData = %v, want previous image payload", inline)
	}

	closing := parts[2].(map[string]any)["text"].(string)
	if !strings.Contains(closing, "step two") {
		t.Errorf("last part %q lacks the prompt", closing)
	}
}

func TestGenerateImageErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantNoImage bool
		wantSubstr  string
	}{
		{
			name: "httpError",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("quota exceeded"))
			},
			wantSubstr: "quota exceeded",
		},
		{
			name: "apiErrorInBody",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"prompt was blocked","status":"INVALID_ARGUMENT"}}`))
			},
			wantSubstr: "prompt was blocked",
		},
		{
			name: "noImagePart",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry, text only"}]}}]}`))
			},
			wantNoImage: true,
		},
		{
			name: "emptyCandidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			wantNoImage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.GenerateImage(context.Background(), "anything", nil)
			if err == nil {
				t.Fatal("GenerateImage() error = nil, want error")
			}
			if tt.wantNoImage && !errors.Is(err, ErrNoImage) {
				t.Errorf("error = %v, want ErrNoImage", err)
			}
			if tt.wantSubstr != "" && !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestGenerateImageEmptyPrompt(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	if _, err := client.GenerateImage(context.Background(), "   ", nil); err == nil {
		t.Fatal("GenerateImage() error = nil, want error")
	}
	if calls != 0 {
		t.Errorf("request count = %d, want 0", calls)
	}
}
