// Package media stores uploaded post and tournament images.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/static"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	// BannerWidth and BannerHeight bound stored images. The aspect ratio is kept.
	BannerWidth  = 1200
	BannerHeight = 675

	jpegQuality = 85
)

// Kinds of images, used as the key prefix.
const (
	KindPost       = "posts"
	KindTournament = "tournaments"
)

// ErrUnsupportedImage is returned for anything that is not a JPEG or PNG image.
var ErrUnsupportedImage = errors.New("only jpg and png images are allowed")

// Backend persists image bytes under a key.
type Backend interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Store resizes uploaded images and hands them to a Backend.
type Store struct {
	backend      Backend
	defaultImage string
	log          *log.Logger
}

// New builds the Store for the configured backend.
func New(ctx context.Context, cfg *config.UploadsConfig, defaultImage string) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("missing uploads config")
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case config.UploadBackendS3:
		backend, err = NewS3Backend(ctx, cfg.S3)
	default:
		backend, err = NewLocalBackend(cfg.Dir)
	}
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, defaultImage), nil
}

// NewWithBackend returns a Store writing to backend.
func NewWithBackend(backend Backend, defaultImage string) *Store {
	return &Store{
		backend:      backend,
		defaultImage: defaultImage,
		log:          log.Default().WithPrefix("media"),
	}
}

// SaveImage decodes r, shrinks it to fit the banner size and stores it as JPEG.
// It returns the key to persist on the post or tournament.
func (s *Store) SaveImage(ctx context.Context, r io.Reader, filename, kind string) (string, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil || (format != imaging.JPEG && format != imaging.PNG) {
		return "", ErrUnsupportedImage
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	img = imaging.Fit(img, BannerWidth, BannerHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := objectKey(kind, filename)
	if err := s.backend.Put(ctx, key, buf.Bytes(), "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	b := img.Bounds()
	s.log.Info("stored image", "key", key, "size", humanize.Bytes(uint64(buf.Len())), "width", b.Dx(), "height", b.Dy())
	return key, nil
}

// Delete removes a stored image. The default placeholder is never deleted.
func (s *Store) Delete(ctx context.Context, key string) {
	if key == "" || key == s.defaultImage {
		return
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete image", "key", key, "error", err)
	}
}

// URL returns where the image can be fetched from. The placeholder is served from the embedded assets.
func (s *Store) URL(key string) string {
	if key == "" || key == s.defaultImage {
		return static.DefaultImageURL
	}
	return s.backend.URL(key)
}

func objectKey(kind, filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := slug.Make(base)
	if name == "" {
		name = "image"
	}
	return path.Join(kind, fmt.Sprintf("%s-%s.jpg", name, uuid.NewString()[:8]))
}

// LocalDir returns the upload directory when images are kept on local disk.
func (s *Store) LocalDir() (string, bool) {
	if b, ok := s.backend.(*LocalBackend); ok {
		return b.Dir(), true
	}
	return "", false
}
