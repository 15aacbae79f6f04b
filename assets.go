package glimpse

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetStore loads template images from a directory and caches them.
// Assets are never modified once loaded.
type AssetStore struct {
	dir   string
	cache map[string]image.Image
}

// NewAssetStore returns a store rooted at dir.
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{dir: dir, cache: make(map[string]image.Image)}
}

// Dir returns the asset directory.
func (s *AssetStore) Dir() string {
	return s.dir
}

// Path returns the file path of the named asset.
func (s *AssetStore) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Exists reports whether the asset file is present.
func (s *AssetStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Load decodes the named asset (PNG, BMP or WebP).
func (s *AssetStore) Load(name string) (image.Image, error) {
	if img, ok := s.cache[name]; ok {
		return img, nil
	}

	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", path, err)
	}
	s.cache[name] = img
	return img, nil
}
