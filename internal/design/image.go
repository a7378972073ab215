package design

import (
	"fmt"
	"image"
	_ "image/gif" // Register decoders for image.Decode
	_ "image/png"
	"io"

	"github.com/vovakirdan/gamify/internal/core"
)

// MaxImageSide bounds both image dimensions; every pixel becomes a cell.
const MaxImageSide = 256

// Pixels returns img as a row-major color raster. Alpha is dropped.
func Pixels(img image.Image) [][]core.Color {
	b := img.Bounds()
	out := make([][]core.Color, b.Dy())
	for y := range out {
		row := make([]core.Color, b.Dx())
		for x := range row {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = core.RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
		out[y] = row
	}
	return out
}

// FromImage decodes a PNG or GIF and onboards it as a new design.
func FromImage(id string, r io.Reader, threshold int, rng core.Rand) (*Design, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		return nil, fmt.Errorf("%s image is %dx%d, at most %dx%d pixels are supported",
			format, b.Dx(), b.Dy(), MaxImageSide, MaxImageSide)
	}
	return FromPixels(id, Pixels(img), threshold, rng)
}
