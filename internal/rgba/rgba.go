package rgba

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// AlphaPolicy decides the alpha plane of images whose color model has no alpha channel.
type AlphaPolicy struct {
	// Synthesize fills the alpha plane with Value for such images.
	// Otherwise alpha is read from the converted pixels, which is always opaque.
	Synthesize bool
	Value      uint8
}

// Opaque is the default policy: a missing alpha channel becomes fully opaque.
var Opaque = AlphaPolicy{Synthesize: true, Value: 255}

// Planes is an image split into four row-major float planes.
type Planes struct {
	bounds        image.Rectangle
	width, height int

	// R, G, B, A
	Channels [4]*mat.Dense
}

// Split converts src to straight (non-premultiplied) RGBA and separates the channels.
// src must not be empty.
func Split(src image.Image, alpha AlphaPolicy) *Planes {
	var p Planes
	p.bounds = src.Bounds()
	p.width, p.height = p.bounds.Dx(), p.bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(p.bounds)
		draw.Draw(nrgba, p.bounds, src, p.bounds.Min, draw.Src)
	}

	area := p.width * p.height
	data := [4][]float64{
		make([]float64, area),
		make([]float64, area),
		make([]float64, area),
		make([]float64, area),
	}
	idx := 0
	for y := range p.height {
		off := nrgba.PixOffset(p.bounds.Min.X, p.bounds.Min.Y+y)
		for x := range p.width {
			px := nrgba.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
			data[0][idx] = float64(px[0])
			data[1][idx] = float64(px[1])
			data[2][idx] = float64(px[2])
			data[3][idx] = float64(px[3])
			idx++
		}
	}
	if alpha.Synthesize && !HasAlpha(src) {
		v := float64(alpha.Value)
		for i := range data[3] {
			data[3][i] = v
		}
	}
	for i := range data {
		p.Channels[i] = mat.NewDense(p.height, p.width, data[i])
	}
	return &p
}

func (p *Planes) Bounds() image.Rectangle { return p.bounds }

// HasAlpha reports whether the color model of src carries an alpha channel.
// Paletted images count only if some palette entry is translucent.
func HasAlpha(src image.Image) bool {
	switch s := src.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		for _, c := range s.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	switch src.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

// Build clips each plane into [0, 255] and assembles them, in R, G, B, A order,
// into an image with the given bounds. Planes must be bounds.Dy() x bounds.Dx().
func Build(bounds image.Rectangle, planes [4]mat.Matrix) *image.NRGBA {
	dist := image.NewNRGBA(bounds)
	width, height := bounds.Dx(), bounds.Dy()
	for y := range height {
		off := y * dist.Stride
		for x := range width {
			for c, plane := range planes {
				dist.Pix[off+x*4+c] = Clip8(plane.At(y, x))
			}
		}
	}
	return dist
}

// sampleEpsilon absorbs floating point noise left by reconstruction,
// so that 254.9999999999 is read as 255 rather than truncated to 254.
const sampleEpsilon = 1e-9

// Clip8 clamps v into [0, 255] and truncates it to an 8-bit sample.
// Values within sampleEpsilon below an integer are read as that integer,
// so 100.9999999999 gives 101 while 100.9999995 still truncates to 100.
func Clip8(v float64) uint8 {
	v += sampleEpsilon
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
