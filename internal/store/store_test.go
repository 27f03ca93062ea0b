package store

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"iwt-site-images/internal/gemini"
)

func TestSaveExtension(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		wantFile string
	}{
		{"png", "image/png", "pic.png"},
		{"jpeg", "image/jpeg", "pic.jpg"},
		{"unknownFallsBackToJpg", "application/octet-stream", "pic.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := New(t.TempDir())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			path, err := st.Save("pic", gemini.Image{
				MimeType: tt.mimeType,
				Data:     base64.StdEncoding.EncodeToString([]byte("fake")),
			})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if filepath.Base(path) != tt.wantFile {
				t.Errorf("Save() path = %q, want filename %q", path, tt.wantFile)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("saved file missing: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff}
	path, err := st.Save("roundtrip", gemini.Image{
		MimeType: "image/png",
		Data:     base64.StdEncoding.EncodeToString(raw),
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("written bytes = %x, want %x", got, raw)
	}
}

func TestSaveOverwrites(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, payload := range []string{"first", "second"} {
		if _, err := st.Save("same", gemini.Image{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString([]byte(payload)),
		}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := os.ReadFile(filepath.Join(st.Dir(), "same.png"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("file content = %q, want %q", got, "second")
	}
}

func TestSaveInvalidBase64(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := st.Save("bad", gemini.Image{MimeType: "image/png", Data: "not base64!!"}); err == nil {
		t.Fatal("Save() error = nil, want decode error")
	}

	if _, err := os.Stat(filepath.Join(st.Dir(), "bad.png")); !os.IsNotExist(err) {
		t.Errorf("file written despite decode failure")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "images")

	if _, err := New(dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestNewEmptyDir(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("New() error = nil, want error")
	}
}
