package bench_test

import (
	"image"
	"image/color"
	"strconv"
	"testing"

	svdcompress "github.com/yyyoichi/svdcompress"
)

// BenchmarkCompress_HD runs a table-driven set of compress benchmarks for an HD image
func BenchmarkCompress_HD(b *testing.B) {
	test := []struct {
		name string
		opts []svdcompress.Option
	}{
		{name: "r10", opts: []svdcompress.Option{
			svdcompress.WithRank(10),
		}},
		{name: "r50", opts: []svdcompress.Option{
			svdcompress.WithRank(50),
		}},
		{name: "r50_j4", opts: []svdcompress.Option{
			svdcompress.WithRank(50),
			svdcompress.WithConcurrency(4),
		}},
		{name: "r200_j4", opts: []svdcompress.Option{
			svdcompress.WithRank(200),
			svdcompress.WithConcurrency(4),
		}},
	}

	img := createImage(1280, 720)
	ctx := b.Context()

	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			c, err := svdcompress.New(tt.opts...)
			if err != nil {
				b.Fatalf("Failed to create Compressor instance (%s): %v", tt.name, err)
			}
			for b.Loop() {
				res, err := c.Compress(ctx, img)
				if err != nil {
					b.Fatalf("Failed to compress (%s): %v", tt.name, err)
				}
				_ = res
			}
		})
	}
}

// BenchmarkBatch_Ranks reconstructs one decomposed image at several ranks.
func BenchmarkBatch_Ranks(b *testing.B) {
	ctx := b.Context()
	batch, err := svdcompress.NewBatch(ctx, createImage(640, 480), svdcompress.WithConcurrency(4))
	if err != nil {
		b.Fatalf("Failed to create Batch: %v", err)
	}
	for _, r := range []int{5, 50, 480} {
		b.Run(rankName(r), func(b *testing.B) {
			for b.Loop() {
				if _, err := batch.Compress(ctx, svdcompress.WithRank(r)); err != nil {
					b.Fatalf("Failed to compress at rank %d: %v", r, err)
				}
			}
		})
	}
}

func rankName(r int) string {
	return "r" + strconv.Itoa(r)
}

// createImage creates a widthxheight test image with gradient pattern
func createImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8(((x ^ y) * 255) / (width + height))
			img.SetNRGBA(x, y, color.NRGBA{r, g, b, 255})
		}
	}
	return img
}
