package svdcompress

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/yyyoichi/svdcompress/internal/artifact"
	"github.com/yyyoichi/svdcompress/internal/decayplot"
)

// Config describes one compression run over files.
type Config struct {
	// Input is the image to compress, in any registered format.
	Input string
	// Output receives the compressed RGBA image. The format follows the extension.
	Output string
	// Rank is the number of singular values kept per channel.
	Rank int
	// PlotPath, if set, receives a log-scale chart of the red channel's singular values.
	PlotPath string
	// Components writes the U, S and Vt factors of each channel next to Output.
	Components bool
	// Options are applied after the ones derived from the fields above.
	Options []Option
	Logger  *log.Logger
}

// Run decodes cfg.Input, compresses it and writes the output image, the optional factor
// images and the optional decay plot. The first error aborts the run; files written
// before it are left in place.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts := []Option{WithRank(cfg.Rank), WithLogger(logger)}
	if cfg.Components {
		opts = append(opts, WithComponentBase(artifact.BasePath(cfg.Output)))
	}
	c, err := New(append(opts, cfg.Options...)...)
	if err != nil {
		return err
	}

	src, format, err := artifact.Decode(cfg.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	size := src.Bounds().Size()
	logger.Printf("decoded %s: %s %dx%d", cfg.Input, format, size.X, size.Y)

	res, err := c.Compress(ctx, src)
	if err != nil {
		return err
	}

	if err := artifact.Encode(cfg.Output, res.Image); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Printf("wrote %s: rank %d, factors hold %.1f%% of the samples",
		cfg.Output, res.Rank, res.StorageRatio()*100)

	if cfg.PlotPath != "" {
		if err := decayplot.Render(cfg.PlotPath, res.Values[R], decayplot.Options{Channel: R.String()}); err != nil {
			return fmt.Errorf("write plot: %w", err)
		}
		logger.Printf("wrote %s", cfg.PlotPath)
	}
	return nil
}
