package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var ErrInvalidImage = errors.New("uploaded file is not a supported image")

const maxImageBytes = 10 << 20

// StoredImage describes a saved upload.
type StoredImage struct {
	URL    string
	Width  int
	Height int
}

// ImageStore saves post images to a directory served under urlPath.
type ImageStore struct {
	dir     string
	urlPath string
}

// NewImageStore creates an ImageStore.
func NewImageStore(dir, urlPath string) *ImageStore {
	return &ImageStore{dir: dir, urlPath: "/" + strings.Trim(urlPath, "/")}
}

// Save validates the upload by decoding its header and writes it under a uuid name.
func (s *ImageStore) Save(file *multipart.FileHeader) (*StoredImage, error) {
	if file == nil || file.Size == 0 {
		return nil, ErrInvalidImage
	}
	if file.Size > maxImageBytes {
		return nil, ErrInvalidImage
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	cfg, format, err := image.DecodeConfig(src)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrInvalidImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.%s", time.Now().Format("20060102"), uuid.NewString(), format)
	target := filepath.Join(s.dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return nil, fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("close image file: %w", err)
	}

	return &StoredImage{
		URL:    path.Join(s.urlPath, name),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// Remove deletes an image previously returned by Save. URLs outside the store are ignored.
func (s *ImageStore) Remove(url string) error {
	prefix := s.urlPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := path.Base(strings.TrimPrefix(url, prefix))
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
