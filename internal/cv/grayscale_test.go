package cv

import (
	"image"
	"image/color"
	"testing"
)

func TestToGrayLuminance(t *testing.T) {
	tests := []struct {
		name string
		rgba color.RGBA
		want uint8
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"pure red", color.RGBA{255, 0, 0, 255}, 76},
		{"pure green", color.RGBA{0, 255, 0, 255}, 149},
		{"pure blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 2, 2))
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					img.SetRGBA(x, y, tt.rgba)
				}
			}

			gray := ToGray(img)
			if got := gray.Pix[0]; got != tt.want {
				t.Errorf("ToGray(%v) = %d, want %d", tt.rgba, got, tt.want)
			}
		})
	}
}

func TestDownsampleAveragesAreas(t *testing.T) {
	// 4x4 image of 2x2 blocks with distinct uniform values; each block must
	// collapse to exactly its value at scale 0.5.
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	blocks := [2][2]uint8{{10, 20}, {30, 40}}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Pix[y*src.Stride+x] = blocks[y/2][x/2]
		}
	}

	dst := Downsample(src, 0.5)
	if dst.Bounds().Dx() != 2 || dst.Bounds().Dy() != 2 {
		t.Fatalf("Downsample dims = %dx%d, want 2x2", dst.Bounds().Dx(), dst.Bounds().Dy())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := dst.Pix[y*dst.Stride+x]; got != blocks[y][x] {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, blocks[y][x])
			}
		}
	}
}

func TestDownsampleMixedBlock(t *testing.T) {
	// A 2x2 block of {0, 100, 100, 200} must average to 100
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.Pix[0] = 0
	src.Pix[1] = 100
	src.Pix[src.Stride] = 100
	src.Pix[src.Stride+1] = 200

	dst := Downsample(src, 0.5)
	if got := dst.Pix[0]; got != 100 {
		t.Errorf("averaged pixel = %d, want 100", got)
	}
}

func TestDownsampleFullScaleReturnsSource(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	if got := Downsample(src, 1.0); got != src {
		t.Error("scale 1.0 should return the source image unchanged")
	}
}

func TestDownsampleNeverProducesEmptyImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	dst := Downsample(src, 0.1)
	if dst.Bounds().Dx() < 1 || dst.Bounds().Dy() < 1 {
		t.Errorf("Downsample produced empty image: %v", dst.Bounds())
	}
}

func TestToMatchSpaceDimensions(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 60))
	scaled := ToMatchSpace(frame, 0.5)

	if scaled.Bounds().Dx() != 50 || scaled.Bounds().Dy() != 30 {
		t.Errorf("ToMatchSpace dims = %dx%d, want 50x30", scaled.Bounds().Dx(), scaled.Bounds().Dy())
	}
}

func TestGrayFromImagePassthrough(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if got := GrayFromImage(gray); got != gray {
		t.Error("GrayFromImage should pass through an existing *image.Gray")
	}
}
