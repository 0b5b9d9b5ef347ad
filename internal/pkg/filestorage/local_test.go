package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["photo"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSavePhoto_WritesFileAndReturnsPublicPath(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "/static")
	require.NoError(t, err)

	publicPath, err := storage.SavePhoto(7, uploadHeader(t, "alice.jpg", "image-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/static/photos/7_alice.jpg", publicPath)

	content, err := os.ReadFile(filepath.Join(base, "photos", "7_alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))
}

func TestSavePhoto_SameFilenameOverwrites(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "/static")
	require.NoError(t, err)

	first, err := storage.SavePhoto(7, uploadHeader(t, "alice.jpg", "old-bytes"))
	require.NoError(t, err)
	second, err := storage.SavePhoto(7, uploadHeader(t, "alice.jpg", "new-bytes"))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	content, err := os.ReadFile(filepath.Join(base, "photos", "7_alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new-bytes", string(content))
}

func TestSavePhoto_NilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	publicPath, err := storage.SavePhoto(7, nil)
	require.NoError(t, err)
	assert.Empty(t, publicPath)
}

func TestDeletePhoto_Idempotent(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "/static")
	require.NoError(t, err)

	publicPath, err := storage.SavePhoto(7, uploadHeader(t, "alice.jpg", "image-bytes"))
	require.NoError(t, err)

	require.NoError(t, storage.DeletePhoto(publicPath))
	_, err = os.Stat(filepath.Join(base, "photos", "7_alice.jpg"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	require.NoError(t, storage.DeletePhoto(publicPath))
}

func TestDeletePhoto_IgnoresUnmanagedPaths(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	assert.NoError(t, storage.DeletePhoto(""))
	assert.NoError(t, storage.DeletePhoto(DefaultPhotoPath))
	assert.NoError(t, storage.DeletePhoto("/etc/passwd"))
}

func TestResolveDisplayPath(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	assert.Equal(t, DefaultPhotoPath, storage.ResolveDisplayPath(""))
	assert.Equal(t, "/static/photos/7_alice.jpg", storage.ResolveDisplayPath("/static/photos/7_alice.jpg"))
}

func TestSanitizeFilename_StripsDirectories(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "alice.jpg", sanitizeFilename("alice.jpg"))
	assert.Equal(t, "photo", sanitizeFilename("."))
}
