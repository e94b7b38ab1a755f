package static

import (
	"bytes"
	"image/png"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultImage(t *testing.T) {
	data, err := DefaultImage()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())
}

func TestFS(t *testing.T) {
	data, err := fs.ReadFile(FS(), "default.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "/static/default.png", DefaultImageURL)
}
