package services

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"ninjapark-backend/storage"
)

const MaxUploadBytes = 5 << 20

type UploadService struct {
	Store    storage.Store
	MaxBytes int64
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{Store: store, MaxBytes: MaxUploadBytes}
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Upload sniffs the content type from the first bytes rather than trusting
// the client, then stores the file under folder.
func (s *UploadService) Upload(ctx context.Context, folder string, r io.Reader, size int64) (*UploadResult, error) {
	if size <= 0 {
		return nil, rule(ErrValidation, "No file uploaded")
	}
	if size > s.MaxBytes {
		return nil, rule(ErrValidation, "File too large. Maximum size is %d MB", s.MaxBytes>>20)
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "read upload")
	}
	contentType, _, _ := strings.Cut(http.DetectContentType(head), ";")
	if !storage.AllowedType(contentType) {
		return nil, rule(ErrValidation, "Invalid file type. Only JPEG, PNG, WEBP and PDF are allowed")
	}

	key := storage.NewKey(folder, contentType)
	url, err := s.Store.Save(ctx, key, contentType, io.LimitReader(br, s.MaxBytes), size)
	if err != nil {
		return nil, errors.Wrap(err, "store upload")
	}
	return &UploadResult{URL: url, Key: key, ContentType: contentType, Size: size}, nil
}

func (s *UploadService) Delete(ctx context.Context, key string) error {
	if strings.Contains(key, "..") || strings.TrimSpace(key) == "" {
		return rule(ErrValidation, "Invalid key")
	}
	return s.Store.Delete(ctx, key)
}
