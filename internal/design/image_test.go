package design

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/gamify/internal/core"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return &buf
}

func TestPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 4, 4)) // non-zero origin
	img.Set(2, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(3, 3, color.RGBA{R: 255, A: 255})

	px := Pixels(img)
	if len(px) != 1 || len(px[0]) != 2 {
		t.Fatalf("expected a 2x1 raster, got %v", px)
	}
	if px[0][0] != core.RGB(10, 20, 30) || px[0][1] != core.RGB(255, 0, 0) {
		t.Errorf("unexpected colors %v", px[0])
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(1, 0, color.Black)

	d, err := FromImage("pic", encodePNG(t, img), DefaultSimilarity, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if got := d.Grid.Rows(""); got[0] != "ABA" || got[1] != "AAA" {
		t.Errorf("grid: expected [ABA AAA], got %v", got)
	}
	if err := Validate(d); err != nil {
		t.Errorf("onboarded image should validate: %v", err)
	}
}

func TestFromImageErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := FromImage("x", strings.NewReader("not an image"), DefaultSimilarity, rng); err == nil {
		t.Error("expected a decode error")
	}

	big := image.NewGray(image.Rect(0, 0, MaxImageSide+1, 1))
	_, err := FromImage("x", encodePNG(t, big), DefaultSimilarity, rng)
	if err == nil || !strings.Contains(err.Error(), "at most") {
		t.Errorf("expected a size error, got %v", err)
	}
}
