package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	// ErrNotImage is returned for uploads whose content is not a known image type.
	ErrNotImage = errors.New("upload a valid image")
	// ErrImageTooLarge is returned for uploads over the size limit.
	ErrImageTooLarge = errors.New("image file is too large")
)

// PostImageDir is the media subdirectory post images are stored under.
const PostImageDir = "posts"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaStore keeps uploaded files on local disk below root.
type MediaStore struct {
	root     string
	maxBytes int64
}

// NewMediaStore creates a store rooted at root. maxBytes <= 0 disables the size check.
func NewMediaStore(root string, maxBytes int64) *MediaStore {
	return &MediaStore{root: root, maxBytes: maxBytes}
}

// Root is the directory files are written below.
func (m *MediaStore) Root() string {
	return m.root
}

// SavePostImage writes an uploaded image and returns its path relative to
// the media root, e.g. "posts/<uuid>.png". The type is sniffed from the
// content, not taken from the filename.
func (m *MediaStore) SavePostImage(header *multipart.FileHeader) (string, error) {
	if m.maxBytes > 0 && header.Size > m.maxBytes {
		return "", ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := imageExtensions[http.DetectContentType(sniff[:n])]
	if !ok {
		return "", ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(m.root, PostImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := writeLimited(filepath.Join(dir, name), file, m.maxBytes); err != nil {
		return "", err
	}
	return path.Join(PostImageDir, name), nil
}

// writeLimited copies src into a new file at name. Nothing is left on disk
// when the copy fails or src holds more than maxBytes.
func writeLimited(name string, src io.Reader, maxBytes int64) error {
	dst, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}

	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}
	written, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(name)
		return fmt.Errorf("write media file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(name)
		return fmt.Errorf("close media file: %w", closeErr)
	case maxBytes > 0 && written > maxBytes:
		_ = os.Remove(name)
		return ErrImageTooLarge
	}
	return nil
}
