package engine

import (
	"math"

	"github.com/overlayassistant/overlay-go/internal/cv"
)

// MapToScreen converts a match location in scaled, region-local space into
// an absolute screen coordinate: the template's center in scaled space is
// divided by the scale factor to recover region-local native coordinates,
// the region origin makes it absolute, and the template's configured offset
// shifts the click point. Rounding to the integer pixel happens last.
func MapToScreen(matchX, matchY, scaledW, scaledH int, scale float64, region cv.Region, offsetX, offsetY int) (int, int) {
	centerX := (float64(matchX) + float64(scaledW)/2) / scale
	centerY := (float64(matchY) + float64(scaledH)/2) / scale

	x := float64(region.Left) + centerX + float64(offsetX)
	y := float64(region.Top) + centerY + float64(offsetY)

	return int(math.Round(x)), int(math.Round(y))
}
