package channel

import (
	"fmt"
	"image"

	"github.com/yyyoichi/svdcompress/internal/normalize"
	"github.com/yyyoichi/svdcompress/internal/svd"
	"gonum.org/v1/gonum/mat"
)

// ErrRank is returned when the target rank cannot be used for a channel.
var ErrRank = svd.ErrRank

// Component names one truncated factor of a decomposition.
type Component string

const (
	U  Component = "U"
	S  Component = "S"
	Vt Component = "Vt"
)

// Exporter receives the normalized truncated factors of a channel.
type Exporter interface {
	Export(channel string, component Component, img *image.Gray) error
}

type Options struct {
	// Name identifies the channel to the Exporter, e.g. "R".
	Name string
	// Exporter is optional. When set, U, diag(S) and Vt are rendered and handed to it.
	Exporter Exporter
	// ClampRank lowers a rank above min(h, w) to min(h, w) instead of failing.
	ClampRank bool
}

type Result struct {
	// Reconstructed is the rank-r approximation. Values are not clipped.
	Reconstructed *mat.Dense
	// Values is the full singular value sequence of the channel.
	Values []float64
	// Rank is the rank actually used.
	Rank int
}

// Compress approximates ch by its rank-r truncated SVD.
func Compress(ch mat.Matrix, r int, opts Options) (*Result, error) {
	if r < 1 {
		return nil, fmt.Errorf("%w: %d must be positive", ErrRank, r)
	}
	if h, w := ch.Dims(); r > min(h, w) && !opts.ClampRank {
		return nil, fmt.Errorf("%w: %d not in [1, %d] for %dx%d channel", ErrRank, r, min(h, w), h, w)
	}
	d, err := svd.Decompose(ch)
	if err != nil {
		return nil, err
	}
	return CompressDecomposition(d, r, opts)
}

// CompressDecomposition is Compress for a channel that was already decomposed.
func CompressDecomposition(d *svd.Decomposition, r int, opts Options) (*Result, error) {
	if opts.ClampRank && r > d.Rank() {
		r = d.Rank()
	}
	tr, err := d.Truncate(r)
	if err != nil {
		return nil, err
	}

	if opts.Exporter != nil {
		if err := export(opts.Exporter, opts.Name, tr); err != nil {
			return nil, err
		}
	}

	return &Result{
		Reconstructed: tr.Reconstruct(),
		Values:        d.S,
		Rank:          r,
	}, nil
}

func export(e Exporter, name string, tr *svd.Decomposition) error {
	components := []struct {
		c Component
		m mat.Matrix
	}{
		{U, tr.U},
		{S, tr.Sigma()},
		{Vt, tr.Vt},
	}
	for _, comp := range components {
		if err := e.Export(name, comp.c, normalize.Gray(comp.m)); err != nil {
			return fmt.Errorf("export %s %s: %w", name, comp.c, err)
		}
	}
	return nil
}
