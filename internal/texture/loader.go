package texture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is returned when neither the texture nor any fallback exists.
var ErrNotFound = errors.New("texture not found")

// Loader reads texture files from disk and caches the decoded images. It
// satisfies obj8.ImageLoader and is safe for concurrent use.
type Loader struct {
	fallbacks []string
	cache     *Cache
	log       *zap.Logger
}

// NewLoader creates a loader. fallbacks lists extensions tried, in order,
// when a texture does not exist under its declared name or cannot be
// decoded; X-Plane models often name a .dds that also ships as .png.
func NewLoader(fallbacks []string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		fallbacks: fallbacks,
		cache:     NewCache(),
		log:       log,
	}
}

// Cache returns the loader's image cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// LoadImage loads and decodes the image at path, or at the first fallback
// that exists.
func (l *Loader) LoadImage(path string) (image.Image, error) {
	if img, ok := l.cache.Get(path); ok {
		return img, nil
	}

	for _, candidate := range l.candidates(path) {
		if !Supported(candidate) {
			continue
		}
		img, err := l.decodeFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if candidate != path {
			l.log.Info("using fallback texture", zap.String("texture", path), zap.String("file", candidate))
		}
		l.cache.Set(path, img)
		return img, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Forget drops every cached image that file may have been read for: the
// texture declared under file's name or any of its fallbacks.
func (l *Loader) Forget(file string) int {
	base := stripExt(filepath.Clean(file))
	n := 0
	for _, key := range l.cache.Keys() {
		if stripExt(filepath.Clean(key)) == base {
			l.cache.Forget(key)
			n++
		}
	}
	if n > 0 {
		l.log.Debug("forgot cached texture", zap.String("file", file), zap.Int("entries", n))
	}
	return n
}

func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// candidates returns path followed by path with each fallback extension.
func (l *Loader) candidates(path string) []string {
	ext := filepath.Ext(path)
	base := stripExt(path)

	out := []string{path}
	for _, fb := range l.fallbacks {
		if !strings.HasPrefix(fb, ".") {
			fb = "." + fb
		}
		if strings.EqualFold(fb, ext) {
			continue
		}
		out = append(out, base+fb)
	}
	return out
}

func (l *Loader) decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := Decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	b := img.Bounds()
	l.log.Debug("decoded texture",
		zap.String("file", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return img, nil
}
