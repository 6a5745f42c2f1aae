package motionblur

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixmap_SetGetPixel(t *testing.T) {
	p := NewPixmap(4, 4)

	c := RGBA{R: 1, G: 0.5, B: 0.25, A: 1}
	p.SetPixel(2, 1, c)

	got := p.GetPixel(2, 1)
	assert.InDelta(t, c.R, got.R, 1.0/255)
	assert.InDelta(t, c.G, got.G, 1.0/255)
	assert.InDelta(t, c.B, got.B, 1.0/255)
	assert.InDelta(t, c.A, got.A, 1.0/255)

	// Out-of-bounds access is silent.
	p.SetPixel(-1, 0, c)
	p.SetPixel(4, 0, c)
	assert.Equal(t, RGBA{}, p.GetPixel(99, 99))
}

func TestPixmap_ClearAndClone(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Clear(RGBA{R: 1, A: 1})

	clone := p.Clone()
	assert.Equal(t, p.Data(), clone.Data())

	clone.SetPixel(0, 0, RGBA{B: 1, A: 1})
	assert.NotEqual(t, p.Data(), clone.Data(), "clone must not share storage")
}

func TestPixmap_NegativeDimensions(t *testing.T) {
	p := NewPixmap(-5, -5)
	assert.Zero(t, p.Width())
	assert.Zero(t, p.Height())
	assert.Empty(t, p.Data())
}

func TestPixmap_ImageInterface(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(1, 1, RGBA{R: 1, A: 1})

	var img image.Image = p
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBAModel, img.ColorModel())

	r, _, _, a := img.At(1, 1).RGBA()
	assert.EqualValues(t, 0xFFFF, r)
	assert.EqualValues(t, 0xFFFF, a)
}

func TestPixmap_ToImageKeepsTranslucentColors(t *testing.T) {
	p := NewPixmap(2, 1)
	p.SetPixel(0, 0, RGBA{R: 1, G: 0.5, B: 0.25, A: 0.5})

	img := p.ToImage()
	assert.Equal(t, color.NRGBA{R: 255, G: 127, B: 63, A: 127}, img.NRGBAAt(0, 0))

	// Both image.Image views of the pixmap agree on translucent pixels.
	assert.Equal(t, p.At(0, 0), img.At(0, 0))
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	p := FromImage(src)
	require.Equal(t, 3, p.Width())
	require.Equal(t, 2, p.Height())

	got := p.GetPixel(2, 1)
	assert.InDelta(t, 10.0/255, got.R, 1e-9)
	assert.InDelta(t, 20.0/255, got.G, 1e-9)
	assert.InDelta(t, 30.0/255, got.B, 1e-9)
}

func TestFromImageScaled(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
		}
	}

	p := FromImageScaled(src, 4, 4)
	require.Equal(t, 4, p.Width())
	require.Equal(t, 4, p.Height())

	// Uniform input stays uniform through resampling.
	got := p.GetPixel(2, 2)
	assert.InDelta(t, 128.0/255, got.R, 0.02)
	assert.InDelta(t, 64.0/255, got.G, 0.02)

	// Same-size path must not resample.
	same := FromImageScaled(src, 8, 8)
	assert.Equal(t, FromImage(src).Data(), same.Data())
}

func TestPixmap_PNGRoundTrip(t *testing.T) {
	p := NewPixmap(5, 4)
	p.Clear(RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1})
	p.SetPixel(3, 2, RGBA{R: 1, A: 1})

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, p.SavePNG(path))

	loaded, err := LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, p.Data(), loaded.Data())
}

func TestLoadPNG_MissingFile(t *testing.T) {
	_, err := LoadPNG(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestPixmap_JPEGRoundTrip(t *testing.T) {
	p := NewPixmap(16, 16)
	p.Clear(RGBA{R: 0.5, G: 0.25, B: 0.75, A: 1})

	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, p.SaveJPEG(path, 95))

	loaded, err := LoadJPEG(path)
	require.NoError(t, err)
	require.Equal(t, 16, loaded.Width())
	require.Equal(t, 16, loaded.Height())

	// JPEG is lossy; a flat field should survive within a small tolerance.
	got := loaded.GetPixel(8, 8)
	assert.InDelta(t, 0.5, got.R, 0.05)
	assert.InDelta(t, 0.25, got.G, 0.05)
	assert.InDelta(t, 0.75, got.B, 0.05)
}

func TestLoadImageFile_DetectsByExtension(t *testing.T) {
	dir := t.TempDir()

	p := NewPixmap(4, 4)
	p.Clear(RGBA{G: 1, A: 1})

	pngPath := filepath.Join(dir, "a.png")
	require.NoError(t, p.SavePNG(pngPath))
	fromPNG, err := LoadImageFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, p.Data(), fromPNG.Data())

	jpgPath := filepath.Join(dir, "a.jpg")
	require.NoError(t, p.SaveJPEG(jpgPath, 90))
	fromJPG, err := LoadImageFile(jpgPath)
	require.NoError(t, err)
	assert.Equal(t, 4, fromJPG.Width())

	// Unknown extension falls back to content sniffing.
	rawPath := filepath.Join(dir, "a.bin")
	require.NoError(t, p.SavePNG(rawPath))
	sniffed, err := LoadImageFile(rawPath)
	require.NoError(t, err)
	assert.Equal(t, p.Data(), sniffed.Data())
}
