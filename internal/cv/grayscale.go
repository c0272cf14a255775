package cv

import (
	"image"
)

// Grayscale conversion and scaling applied identically to templates at load
// time and to captured frames every cycle, so template and frame proportions
// stay consistent.

// ToGray converts an RGBA image to single-channel intensity using the
// 299/587/114 luminance weights.
func ToGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			idx := (y * img.Stride) + (x * 4)
			r := img.Pix[idx]
			g := img.Pix[idx+1]
			b := img.Pix[idx+2]

			gray.Pix[y*gray.Stride+x] = uint8((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
		}
	}

	return gray
}

// GrayFromImage converts any decoded image to single-channel intensity
func GrayFromImage(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA() returns 16-bit channels
			lum := (int(r>>8)*299 + int(g>>8)*587 + int(b>>8)*114) / 1000
			gray.Pix[(y-bounds.Min.Y)*gray.Stride+(x-bounds.Min.X)] = uint8(lum)
		}
	}

	return gray
}

// Downsample scales a grayscale image to scale of its native size using area
// averaging: each destination pixel is the mean of the source pixels it
// covers. Averaging rather than point sampling avoids aliasing artifacts in
// fine detail. A scale of 1.0 returns the source unchanged.
func Downsample(src *image.Gray, scale float64) *image.Gray {
	if scale >= 1.0 {
		return src
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()

	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewGray(image.Rect(0, 0, dstW, dstH))

	for dy := 0; dy < dstH; dy++ {
		// Source row span covered by this destination row
		sy0 := dy * srcH / dstH
		sy1 := (dy + 1) * srcH / dstH
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}

		for dx := 0; dx < dstW; dx++ {
			sx0 := dx * srcW / dstW
			sx1 := (dx + 1) * srcW / dstW
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}

			var sum, count int
			for sy := sy0; sy < sy1; sy++ {
				row := sy * src.Stride
				for sx := sx0; sx < sx1; sx++ {
					sum += int(src.Pix[row+sx])
					count++
				}
			}

			dst.Pix[dy*dst.Stride+dx] = uint8(sum / count)
		}
	}

	return dst
}

// ToMatchSpace converts a captured frame into the reduced-resolution
// single-channel representation used for matching.
func ToMatchSpace(frame *image.RGBA, scale float64) *image.Gray {
	return Downsample(ToGray(frame), scale)
}
