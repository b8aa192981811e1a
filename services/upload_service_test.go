package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/storage"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadSniffsContentType(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalStore(dir, "/uploads"))
	ctx := context.Background()

	res, err := svc.Upload(ctx, "banners", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Key, "banners/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "/uploads/"+res.Key, res.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.NoError(t, svc.Delete(ctx, res.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(res.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRejects(t *testing.T) {
	svc := NewUploadService(storage.NewLocalStore(t.TempDir(), ""))
	svc.MaxBytes = 1 << 20
	ctx := context.Background()

	script := []byte("<html><script>alert(1)</script></html>")
	_, err := svc.Upload(ctx, "cms", bytes.NewReader(script), int64(len(script)))
	assert.EqualError(t, err, "Invalid file type. Only JPEG, PNG, WEBP and PDF are allowed")

	_, err = svc.Upload(ctx, "cms", bytes.NewReader(pngHeader), 2<<20)
	assert.EqualError(t, err, "File too large. Maximum size is 1 MB")

	_, err = svc.Upload(ctx, "cms", bytes.NewReader(nil), 0)
	assert.EqualError(t, err, "No file uploaded")

	assert.ErrorIs(t, svc.Delete(ctx, "../etc/passwd"), ErrValidation)
}
