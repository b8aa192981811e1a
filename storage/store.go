package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store keeps uploaded files and returns the URL they are served from.
type Store interface {
	Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

var extByType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// AllowedType reports whether uploads of contentType are accepted.
func AllowedType(contentType string) bool {
	_, ok := extByType[contentType]
	return ok
}

// NewKey builds "<folder>/<yyyy>/<mm>/<uuid><ext>" for an upload.
func NewKey(folder, contentType string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		folder = "misc"
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.NewString(), extByType[contentType])
}

// DecodeDataURL splits "data:image/png;base64,...." into its content type and bytes.
// A bare base64 payload is assumed to be PNG.
func DecodeDataURL(s string) (string, []byte, error) {
	contentType := "image/png"
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok {
			return "", nil, fmt.Errorf("malformed data url")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return contentType, data, nil
}
