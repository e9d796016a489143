package normalize

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// Tolerance is the smallest value range that is stretched to [0, 255].
// Narrower ranges produce an all-zero image.
const Tolerance = 1e-8

// Gray maps m linearly onto [0, 255] so that its minimum becomes 0 and its maximum 255.
// Row i of m becomes row i of the image. Scaled values are truncated toward zero.
func Gray(m mat.Matrix) *image.Gray {
	rows, cols := m.Dims()
	dist := image.NewGray(image.Rect(0, 0, cols, rows))

	lo, hi := m.At(0, 0), m.At(0, 0)
	for i := range rows {
		for j := range cols {
			v := m.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi-lo < Tolerance {
		return dist
	}

	scale := 255 / (hi - lo)
	for i := range rows {
		off := i * dist.Stride
		for j := range cols {
			dist.Pix[off+j] = uint8((m.At(i, j) - lo) * scale)
		}
	}
	return dist
}
