// Package store writes generated images into the output directory.
package store

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"iwt-site-images/internal/gemini"
)

type Store struct {
	dir string
}

// New ensures dir exists and returns a store rooted there.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save decodes the base64 payload and writes it to <dir>/<name>.<ext>,
// overwriting any earlier file of the same name. The extension follows the
// declared mime type: png stays png, everything else is treated as jpg.
func (s *Store) Save(name string, img gemini.Image) (string, error) {
	ext := lo.Ternary(strings.Contains(img.MimeType, "png"), "png", "jpg")
	path := filepath.Join(s.dir, name+"."+ext)

	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return "", fmt.Errorf("decode image data: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
