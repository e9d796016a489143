package svdcompress

import (
	"fmt"
	"log"

	"github.com/yyyoichi/svdcompress/internal/artifact"
	"github.com/yyyoichi/svdcompress/internal/channel"
	"github.com/yyyoichi/svdcompress/internal/rgba"
)

type Option func(*Compressor) error

// WithRank sets the number of singular values kept per channel.
// The rank must be positive. Unless WithClampRank is given, it must also be
// at most min(height, width) of the image being compressed.
func WithRank(r int) Option {
	return func(c *Compressor) error {
		if r < 1 {
			return fmt.Errorf("%w: %d must be positive", ErrInvalidRank, r)
		}
		c.rank = r
		return nil
	}
}

// WithClampRank lowers a rank larger than min(height, width) to min(height, width)
// instead of failing.
func WithClampRank() Option {
	return func(c *Compressor) error {
		c.clampRank = true
		return nil
	}
}

// WithAlpha sets the alpha value used for images whose color model has no alpha
// channel, such as grayscale or JPEG images. The default is 255 (opaque).
func WithAlpha(v uint8) Option {
	return func(c *Compressor) error {
		c.alpha = rgba.AlphaPolicy{Synthesize: true, Value: v}
		return nil
	}
}

// WithoutAlphaSynthesis takes the alpha plane from the converted pixels for every image.
func WithoutAlphaSynthesis() Option {
	return func(c *Compressor) error {
		c.alpha = rgba.AlphaPolicy{}
		return nil
	}
}

// WithComponents hands the normalized truncated factors U, S and Vt of every channel to e.
// With WithConcurrency above 1, e must be safe for concurrent use.
func WithComponents(e channel.Exporter) Option {
	return func(c *Compressor) error {
		c.exporter = e
		return nil
	}
}

// WithComponentBase writes the factors of every channel as grayscale PNG files
// named "<base>_<channel>_U.png", "<base>_<channel>_S.png" and "<base>_<channel>_Vt.png".
func WithComponentBase(base string) Option {
	return WithComponents(artifact.ComponentWriter{Base: base})
}

// WithConcurrency decomposes up to n channels at the same time.
// The result does not depend on n. The default is 1.
func WithConcurrency(n int) Option {
	return func(c *Compressor) error {
		if n < 1 {
			return fmt.Errorf("concurrency %d must be positive", n)
		}
		c.concurrency = n
		return nil
	}
}

// WithLogger reports per-channel progress to l. Logging is discarded by default.
func WithLogger(l *log.Logger) Option {
	return func(c *Compressor) error {
		c.logger = l
		return nil
	}
}
