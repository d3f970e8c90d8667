package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boom-blog/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, nil)
	require.NoError(t, err)

	data := pngBytes(t)
	url, err := store.Save(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSaveImageRejects(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), strings.NewReader("just some text"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = store.Save(context.Background(), bytes.NewReader(nil))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	big := append(pngBytes(t), make([]byte, MaxImageSize)...)
	_, err = store.Save(context.Background(), bytes.NewReader(big))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
