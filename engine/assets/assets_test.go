package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			m.Set(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	m.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	m.Set(2, 1, color.NRGBA{0, 0, 255, 255})
	return m
}

func TestDecodePNGBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	img, err := DecodeImageBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 3, img.W)
	assert.Equal(t, 2, img.H)
	require.Len(t, img.Pixels, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, img.Pixels[len(img.Pixels)-4:])
}

func TestLoadBMPFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, testImage()))
	require.NoError(t, f.Close())

	img, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", img.Format)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pixels[0:4])
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := DecodeImageBytes([]byte("not an image"))
	assert.Error(t, err)

	_, err = LoadImageFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestEmbeddedShaders(t *testing.T) {
	vs, fs, err := Renderer2DShaders()
	require.NoError(t, err)
	assert.Contains(t, vs, "uniform mat4 uVP")
	assert.Contains(t, fs, "uTex[16]")

	_, err = LoadShader("nope.frag")
	assert.Error(t, err)
}
