package asset

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/stagerig/rigsim/backend-go/internal/typeid"
)

var ErrNotFound = errors.New("photo not found")

// Photo describes a stored PNG.
type Photo struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Store keeps exported photos on disk under typeid file names.
type Store struct {
	dir string // directory to store photo files
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// SavePNG encodes img as a new photo.
func (s *Store) SavePNG(img image.Image) (Photo, error) {
	id := typeid.NewPhotoID()
	path := s.path(id)

	out, err := os.Create(path)
	if err != nil {
		return Photo{}, fmt.Errorf("create photo file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return Photo{}, fmt.Errorf("encode png: %w", err)
	}

	b := img.Bounds()
	slog.Debug("photo stored", "id", id, "width", b.Dx(), "height", b.Dy())
	return Photo{
		ID:     id,
		URL:    "/photos/" + id + ".png",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Open returns the file of a stored photo.
func (s *Store) Open(id string) (*os.File, error) {
	if err := typeid.Validate(id, typeid.PrefixPhoto); err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes a photo from disk.
func (s *Store) Delete(id string) error {
	if err := typeid.Validate(id, typeid.PrefixPhoto); err != nil {
		return ErrNotFound
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Serve returns an http.Handler that serves stored photos with caching headers.
func (s *Store) Serve() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.StripPrefix("/photos/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Photo IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".png")
}
