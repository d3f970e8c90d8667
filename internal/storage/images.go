package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

// URLPrefix is where stored images are served from.
const URLPrefix = "/uploads/"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageStore persists uploaded images and returns the public URL for them.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

// LocalImageStore writes images into a directory that is served under URLPrefix.
type LocalImageStore struct {
	dir string
	log *slog.Logger
}

func NewLocalImageStore(dir string, logger *slog.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &LocalImageStore{dir: dir, log: logger.With("component", "images")}, nil
}

func (s *LocalImageStore) Dir() string { return s.dir }

// Save sniffs the content type from the bytes themselves, so a client-supplied
// Content-Type or file name is never trusted.
func (s *LocalImageStore) Save(ctx context.Context, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", utils.NewInvalidInputError("failed to read image")
	}
	if len(head) == 0 {
		return "", utils.NewInvalidInputError("image is empty")
	}

	ext, ok := allowedImageTypes[http.DetectContentType(head)]
	if !ok {
		return "", utils.NewInvalidInputError("invalid file type; only JPEG, PNG and GIF are allowed")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", utils.NewAppError(utils.ErrInternal, "failed to create image file", err)
	}

	written, err := io.Copy(dst, io.LimitReader(br, MaxImageSize+1))
	closeErr := dst.Close()
	if err == nil && written > MaxImageSize {
		err = utils.NewInvalidInputError("image is larger than 5MB")
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		if utils.IsErrorCode(err, utils.ErrInvalidInput) {
			return "", err
		}
		return "", utils.NewAppError(utils.ErrInternal, "failed to write image", err)
	}

	s.log.Info("Image stored", "file", name, "bytes", written)
	return URLPrefix + name, nil
}
