// Package media stores uploaded files under a configured root directory.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// ErrBadExtension rejects an upload whose extension is not allow-listed.
var ErrBadExtension = errors.New("unsupported file extension")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
}

// Store writes uploads below a single root. Storage paths never contain
// client-supplied names; only the extension is taken, after validation.
type Store struct {
	root string
}

// NewStore constructs a store rooted at dir.
func NewStore(dir string) *Store { return &Store{root: dir} }

const logoDir = "test_logo"

// SaveLogo persists a logo upload and returns its root-relative path.
func (s *Store) SaveLogo(clientName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(clientName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	name := id.String() + ext

	dir := filepath.Join(s.root, logoDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return filepath.Join(logoDir, name), nil
}
