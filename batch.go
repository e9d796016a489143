package svdcompress

import (
	"context"
	"fmt"
	"image"

	"github.com/yyyoichi/svdcompress/internal/channel"
	"github.com/yyyoichi/svdcompress/internal/rgba"
	"github.com/yyyoichi/svdcompress/internal/svd"
	"gonum.org/v1/gonum/mat"
)

// Batch enables compressing a single image at several ranks
// by caching the decomposition of each channel.
type Batch struct {
	bounds  image.Rectangle
	decomps [4]*svd.Decomposition
}

// NewBatch decomposes every channel of src.
// Only the alpha, concurrency and logger options apply here.
func NewBatch(ctx context.Context, src image.Image, opts ...Option) (*Batch, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	planes := rgba.Split(src, c.alpha)

	b := &Batch{bounds: planes.Bounds()}
	err = c.each(ctx, func(ch Channel) error {
		d, err := svd.Decompose(planes.Channels[ch])
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
		b.decomps[ch] = d
		c.logger.Printf("channel %s: decomposed %d singular values", ch, d.Rank())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Values returns the full singular value sequence of ch.
func (b *Batch) Values(ch Channel) []float64 {
	return b.decomps[ch].S
}

// MaxRank is min(height, width) of the cached image.
func (b *Batch) MaxRank() int {
	return min(b.bounds.Dx(), b.bounds.Dy())
}

// Compress reconstructs the cached image with the specified options.
// Uses the cached decompositions, so only truncation and reconstruction are computed.
func (b *Batch) Compress(ctx context.Context, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if !c.clampRank && c.rank > b.MaxRank() {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidRank, c.rank, b.MaxRank())
	}

	var (
		res           = new(Result)
		reconstructed [4]mat.Matrix
	)
	err = c.each(ctx, func(ch Channel) error {
		out, err := channel.CompressDecomposition(b.decomps[ch], c.rank, channel.Options{
			Name:      ch.String(),
			Exporter:  c.exporter,
			ClampRank: c.clampRank,
		})
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
		reconstructed[ch] = out.Reconstructed
		res.Values[ch] = out.Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Rank = min(c.rank, b.MaxRank())
	res.Image = rgba.Build(b.bounds, reconstructed)
	return res, nil
}
