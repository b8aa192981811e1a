package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key := NewKey("../../etc", "image/png")
	assert.True(t, strings.HasPrefix(key, "etc/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.True(t, strings.HasPrefix(NewKey("", "application/pdf"), "misc/"))
	assert.True(t, AllowedType("image/webp"))
	assert.False(t, AllowedType("image/gif"))
}

func TestDecodeDataURL(t *testing.T) {
	ct, data, err := DecodeDataURL("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, "hello", string(data))

	ct, _, err = DecodeDataURL("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, _, err = DecodeDataURL("data:image/png;base64")
	assert.Error(t, err)
	_, _, err = DecodeDataURL("data:image/png;base64,***")
	assert.Error(t, err)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "https://cdn.example.com/uploads/")
	ctx := context.Background()

	url, err := store.Save(ctx, "../gallery/a.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/gallery/a.png", url)

	// The key is cleaned so the file cannot land outside dir.
	data, err := os.ReadFile(filepath.Join(dir, "gallery", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.Delete(ctx, "gallery/a.png"))
	require.NoError(t, store.Delete(ctx, "gallery/a.png"), "deleting a missing file is not an error")
	assert.Error(t, store.Delete(ctx, "/"))
}

func TestS3ObjectURL(t *testing.T) {
	store, err := NewS3Store(S3Config{Endpoint: "minio.local:9000", Bucket: "ninja", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/ninja/cms/a.png", store.objectURL("cms/a.png"))

	store.cfg.PublicURL = "https://cdn.ninjapark.in/"
	assert.Equal(t, "https://cdn.ninjapark.in/cms/a.png", store.objectURL("cms/a.png"))

	_, err = NewS3Store(S3Config{Endpoint: "minio.local:9000"})
	assert.Error(t, err)
}
