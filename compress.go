package svdcompress

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/yyyoichi/svdcompress/internal/channel"
	"github.com/yyyoichi/svdcompress/internal/rgba"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidRank reports a rank outside [1, min(height, width)].
	ErrInvalidRank = channel.ErrRank
	ErrEmptyImage  = errors.New("image has no pixels")
)

// DefaultRank is the number of singular values kept when no rank is given.
const DefaultRank = 50

// Channel identifies one plane of an RGBA image.
type Channel int

const (
	R Channel = iota
	G
	B
	A
)

// Channels lists all channels in processing order.
var Channels = [4]Channel{R, G, B, A}

func (c Channel) String() string {
	switch c {
	case R:
		return "R"
	case G:
		return "G"
	case B:
		return "B"
	case A:
		return "A"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Compress approximates every channel of src by a truncated SVD with the specified options.
// This is a convenience function that creates a Compressor instance and calls its Compress method.
func Compress(ctx context.Context, src image.Image, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Compress(ctx, src)
}

type Compressor struct {
	rank        int
	clampRank   bool
	alpha       rgba.AlphaPolicy
	exporter    channel.Exporter
	concurrency int
	logger      *log.Logger
}

// New initializes a compressor.
// Without options it keeps DefaultRank singular values, rejects ranks larger than the
// image allows, synthesizes an opaque alpha plane and processes channels one at a time.
func New(opts ...Option) (*Compressor, error) {
	c := new(Compressor)
	if err := c.init(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compressor) init(opts ...Option) error {
	c.rank = DefaultRank
	c.alpha = rgba.Opaque
	c.concurrency = 1
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return nil
}

// Result is a compressed image along with the singular values of its channels.
type Result struct {
	Image *image.NRGBA
	// Values holds the full singular value sequence of each channel, indexed by Channel.
	Values [4][]float64
	// Rank is the number of singular values used per channel.
	Rank int
}

// StorageRatio is the number of samples held by the truncated factors
// relative to the number of samples in one channel.
func (r *Result) StorageRatio() float64 {
	w, h := r.Image.Bounds().Dx(), r.Image.Bounds().Dy()
	return float64(r.Rank*(h+w+1)) / float64(h*w)
}

// Compress approximates each channel of src by its rank-r truncated SVD.
//
// Process:
//  1. Converts the image to four float channels (R, G, B, A).
//  2. Decomposes each channel and keeps the leading singular values.
//  3. Exports the truncated factors if an exporter is configured.
//  4. Reconstructs each channel, clips it to [0, 255] and reassembles the image.
//
// Returns ErrInvalidRank before any decomposition if the rank does not fit the image.
func (c *Compressor) Compress(ctx context.Context, src image.Image) (*Result, error) {
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	planes := rgba.Split(src, c.alpha)
	h, w := planes.Bounds().Dy(), planes.Bounds().Dx()
	if !c.clampRank && c.rank > min(h, w) {
		return nil, fmt.Errorf("%w: %d not in [1, %d] for %dx%d image", ErrInvalidRank, c.rank, min(h, w), w, h)
	}

	var (
		res           = new(Result)
		reconstructed [4]mat.Matrix
	)
	err := c.each(ctx, func(ch Channel) error {
		out, err := channel.Compress(planes.Channels[ch], c.rank, channel.Options{
			Name:      ch.String(),
			Exporter:  c.exporter,
			ClampRank: c.clampRank,
		})
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
		reconstructed[ch] = out.Reconstructed
		res.Values[ch] = out.Values
		c.logger.Printf("channel %s: rank %d of %d, energy retained %.2f%%",
			ch, out.Rank, len(out.Values), EnergyRetained(out.Values, out.Rank)*100)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Rank = min(c.rank, h, w)
	res.Image = rgba.Build(planes.Bounds(), reconstructed)
	return res, nil
}

// each calls fn for every channel. Channels run in order unless concurrency allows more.
func (c *Compressor) each(ctx context.Context, fn func(Channel) error) error {
	if c.concurrency <= 1 {
		for _, ch := range Channels {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ch); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, ch := range Channels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ch)
		})
	}
	return g.Wait()
}

// EnergyRetained is the share of the squared singular values covered by the first r values.
// A zero sequence is fully retained.
func EnergyRetained(values []float64, r int) float64 {
	var kept, total float64
	for i, s := range values {
		total += s * s
		if i < r {
			kept += s * s
		}
	}
	if total == 0 {
		return 1
	}
	return kept / total
}
