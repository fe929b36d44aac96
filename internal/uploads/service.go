// Package uploads sends event images to the backend's upload endpoint.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"evently/internal/api"
	"evently/internal/shared/validation"
)

const DefaultMaxSize = 10 << 20

// Service uploads files
type Service interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

type service struct {
	client  *api.Client
	maxSize int64
}

func NewService(client *api.Client, maxSize int64) Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &service{client: client, maxSize: maxSize}
}

// upload response
type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage checks that r holds an image no larger than the limit and
// returns the URL the backend stored it under
func (s *service) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := checkImage(data, s.maxSize); err != nil {
		return "", err
	}

	mtype := mimetype.Detect(data)
	name := filepath.Base(filename)
	if filepath.Ext(name) == "" {
		name += mtype.Extension()
	}

	var resp uploadResponse
	if err := s.client.Upload(ctx, "/upload/image", "file", name, mtype.String(), data, &resp, "Failed to upload image"); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func checkImage(data []byte, maxSize int64) error {
	if len(data) == 0 {
		return validation.New("file", "is required")
	}
	if int64(len(data)) > maxSize {
		return validation.New("file", fmt.Sprintf("must be at most %d bytes", maxSize))
	}
	if mtype := mimetype.Detect(data); !strings.HasPrefix(mtype.String(), "image/") {
		return validation.New("file", fmt.Sprintf("must be an image, got %s", mtype.String()))
	}
	return nil
}
