package imgmatch_test

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/glimpse/internal/imgmatch"
)

func noise(seed int64, w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
			continue
		}
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func paste(dst *image.RGBA, src *image.RGBA, at image.Point) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(at.X+x, at.Y+y, src.At(x, y))
		}
	}
}

func TestFindExactPosition(t *testing.T) {
	hay := fill(80, 60, color.RGBA{200, 200, 200, 255})
	needle := noise(1, 12, 8)
	paste(hay, needle, image.Pt(30, 41))

	for _, gray := range []bool{true, false} {
		res, err := imgmatch.Find(hay, needle, imgmatch.Options{Confidence: 0.9, Grayscale: gray})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(30, 41, 42, 49), res.Bounds)
		assert.InDelta(t, 1.0, res.Score, 1e-6)
	}
}

func TestFindNotFound(t *testing.T) {
	hay := noise(2, 60, 40)
	needle := noise(3, 10, 10)

	res, err := imgmatch.Find(hay, needle, imgmatch.Options{Confidence: 0.9})
	require.ErrorIs(t, err, imgmatch.ErrNotFound)
	assert.Less(t, res.Score, 0.9)
}

func TestFindTemplateTooLarge(t *testing.T) {
	_, err := imgmatch.Find(noise(4, 10, 10), noise(5, 11, 4), imgmatch.Options{})
	require.ErrorIs(t, err, imgmatch.ErrTemplateTooLarge)
}

func TestFindEmptyImage(t *testing.T) {
	_, err := imgmatch.Find(image.NewRGBA(image.Rect(0, 0, 0, 0)), noise(6, 1, 1), imgmatch.Options{})
	require.ErrorIs(t, err, imgmatch.ErrEmptyImage)
}

func TestFindFlatTemplate(t *testing.T) {
	hay := fill(40, 30, color.RGBA{10, 10, 10, 255})
	patch := fill(6, 6, color.RGBA{250, 250, 250, 255})
	paste(hay, patch, image.Pt(20, 5))

	res, err := imgmatch.Find(hay, patch, imgmatch.Options{Confidence: 0.99, Grayscale: true})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 5), res.Bounds.Min)
}

func TestFindOffsetBounds(t *testing.T) {
	full := fill(50, 50, color.RGBA{128, 128, 128, 255})
	needle := noise(7, 8, 8)
	paste(full, needle, image.Pt(35, 30))

	// A sub-image keeps the parent's coordinate space.
	sub := full.SubImage(image.Rect(20, 20, 50, 50))
	res, err := imgmatch.Find(sub, needle, imgmatch.Options{Confidence: 0.95})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(35, 30, 43, 38), res.Bounds)
}

func TestFindGrayscaleIgnoresHue(t *testing.T) {
	hay := fill(30, 30, color.RGBA{0, 0, 0, 255})
	needle := noise(8, 6, 6)
	paste(hay, needle, image.Pt(3, 4))

	// Swap the red and blue channels of the painted copy: colour matching
	// sees a different patch, luminance matching sees a similar one.
	for y := 4; y < 10; y++ {
		for x := 3; x < 9; x++ {
			c := hay.RGBAAt(x, y)
			hay.SetRGBA(x, y, color.RGBA{c.B, c.G, c.R, 255})
		}
	}

	colour, _ := imgmatch.Find(hay, needle, imgmatch.Options{Confidence: 0.5})
	gray, _ := imgmatch.Find(hay, needle, imgmatch.Options{Confidence: 0.5, Grayscale: true})
	assert.Greater(t, gray.Score, colour.Score)
}
