package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"roomhub/internal/domain"
)

// BlobStore keeps uploaded files. Keys are opaque to callers.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (key string, err error)
	Remove(ctx context.Context, key string) error
}

// ImageUpload is one file part of a room create request.
type ImageUpload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// sniffImage peeks at the first bytes and returns a reader positioned at the
// start together with a normalized file name.
func sniffImage(name string, rc io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(rc, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", err
	}
	ext, ok := imageTypes[http.DetectContentType(head)]
	if !ok {
		return nil, "", domain.NewValidationError("images", fmt.Sprintf("%s: upload a valid image", filepath.Base(name)))
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return br, base + ext, nil
}
