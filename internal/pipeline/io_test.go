package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelstream/internal/pipeline/pgm"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a.pgm":  "pgm",
		"a.PNG":  "png",
		"a.jpg":  "jpeg",
		"a.jpeg": "jpeg",
		"a.bmp":  "bmp",
		"a.tiff": "tiff",
		"a.tif":  "tiff",
		"a.gif":  "",
		"noext":  "",
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestToGrayConvertsColour(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{255, 255, 255, 255})
	rgba.Set(1, 0, color.RGBA{0, 0, 0, 255})

	gray := ToGray(rgba)
	assert.Equal(t, []uint8{255, 0}, gray.Pix)
}

func TestToGrayKeepsGray(t *testing.T) {
	g := randomGray(1, 4, 4)
	assert.Same(t, g, ToGray(g))

	sub := g.SubImage(image.Rect(1, 1, 3, 3))
	moved := ToGray(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), moved.Bounds())
	assert.Equal(t, Pixels(sub.(*image.Gray)), moved.Pix)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	img := randomGray(2, 17, 9)
	dir := t.TempDir()
	saver := NewSaver(nil)
	loader := NewLoader(nil)

	for _, name := range []string{"out.pgm", "out.png", "out.bmp", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, saver.SaveToPath(path, img))

			data, err := loader.LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, 17, data.Width)
			assert.Equal(t, 9, data.Height)
			assert.Equal(t, path, data.Path)
			assert.Equal(t, img.Pix, data.Image.Pix)
		})
	}
}

func TestSaveRawPGM(t *testing.T) {
	saver := NewSaver(nil)
	saver.SetPGMEncoding(pgm.Raw)

	var buf bytes.Buffer
	require.NoError(t, saver.SaveToWriter(&buf, FromPixels([]uint8{1, 2}, 2, 1), "pgm"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("P5")))
}

func TestSaveErrors(t *testing.T) {
	saver := NewSaver(nil)
	assert.Error(t, saver.SaveToPath(filepath.Join(t.TempDir(), "out.xyz"), randomGray(1, 2, 2)))
	assert.Error(t, saver.SaveToWriter(&bytes.Buffer{}, nil, "png"))
	assert.Error(t, saver.SaveToWriter(&bytes.Buffer{}, randomGray(1, 2, 2), "webp"))
}

func TestLoadFromBytesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, randomGray(7, 5, 5)))

	data, err := NewLoader(nil).LoadFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", data.Format)
	assert.Equal(t, randomGray(7, 5, 5).Pix, data.Image.Pix)
}

func TestLoadGarbage(t *testing.T) {
	_, err := NewLoader(nil).LoadFromBytes([]byte("not an image"))
	assert.Error(t, err)
}
