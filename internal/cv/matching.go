package cv

import (
	"image"
	"math"
)

// Match is a single above-threshold correlation peak, in scaled frame
// coordinates (top-left corner of the template placement).
type Match struct {
	X          int
	Y          int
	Confidence float64
}

// MatchAll computes a normalized cross-correlation map between a scaled
// frame and a scaled template and returns every placement whose confidence
// meets the threshold, in row-major scan order of the map (top-to-bottom,
// left-to-right). Row-major order is the documented tie-break for
// first-match selection.
//
// Confidence is the correlation of mean-subtracted neighborhoods normalized
// by the product of local standard deviations, so it is bounded in [-1, 1]
// with values near 1 indicating a strong match. Flat (zero-deviation)
// placements score 0.
func MatchAll(frame, tmpl *image.Gray, threshold float64) []Match {
	fw := frame.Bounds().Dx()
	fh := frame.Bounds().Dy()
	tw := tmpl.Bounds().Dx()
	th := tmpl.Bounds().Dy()

	if tw > fw || th > fh || tw == 0 || th == 0 {
		return nil
	}

	n := float64(tw * th)

	// Template statistics are placement-independent
	var sumT, sumTT float64
	for y := 0; y < th; y++ {
		row := y * tmpl.Stride
		for x := 0; x < tw; x++ {
			v := float64(tmpl.Pix[row+x])
			sumT += v
			sumTT += v * v
		}
	}
	devT := sumTT - sumT*sumT/n

	var matches []Match
	for py := 0; py <= fh-th; py++ {
		for px := 0; px <= fw-tw; px++ {
			score := scoreAt(frame, tmpl, px, py, tw, th, n, sumT, devT)
			if score >= threshold {
				matches = append(matches, Match{X: px, Y: py, Confidence: score})
			}
		}
	}

	return matches
}

// scoreAt computes the normalized cross-correlation for one placement
func scoreAt(frame, tmpl *image.Gray, px, py, tw, th int, n, sumT, devT float64) float64 {
	var sumF, sumFF, sumFT float64

	for y := 0; y < th; y++ {
		fRow := (py + y) * frame.Stride
		tRow := y * tmpl.Stride
		for x := 0; x < tw; x++ {
			f := float64(frame.Pix[fRow+px+x])
			t := float64(tmpl.Pix[tRow+x])
			sumF += f
			sumFF += f * f
			sumFT += f * t
		}
	}

	numerator := sumFT - sumF*sumT/n
	devF := sumFF - sumF*sumF/n

	denominator := devF * devT
	if denominator <= 0 {
		return 0
	}

	return numerator / math.Sqrt(denominator)
}
