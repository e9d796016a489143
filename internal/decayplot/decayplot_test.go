package decayplot_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/svdcompress/internal/decayplot"
)

func TestRender_Image(t *testing.T) {
	dir := t.TempDir()
	test := []struct {
		name   string
		values []float64
	}{
		{"decay", []float64{1020, 300, 40, 2, 0.5, 1e-3}},
		{"rank_one", []float64{1020, 0, 0, 0}},
		{"rank_one_noise", []float64{1020, 1e-14, 0, 0}},
		{"single", []float64{42}},
		{"all_zero", []float64{0, 0, 0}},
		{"empty", nil},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			err := decayplot.Render(path, tt.values, decayplot.Options{Channel: "R"})
			require.NoError(t, err)

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(b))
			require.NoError(t, err)
			assert.Positive(t, img.Bounds().Dx())
			assert.Positive(t, img.Bounds().Dy())
		})
	}
}

func TestYRange(t *testing.T) {
	test := []struct {
		name   string
		values []float64
		min    float64
		max    float64
	}{
		{"decay", []float64{1020, 300, 40, 2, 0.5, 1e-3}, 1e-3, 1020},
		{"rank_one", []float64{1020, 0, 0, 0}, 1020, 1020},
		{"rank_one_noise", []float64{1020, 1e-14, 0, 0}, 1e-14, 1020},
		{"single", []float64{42}, 42, 42},
		{"all_zero", []float64{0, 0, 0}, 1, 10},
		{"empty", nil, 1, 10},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := decayplot.YRange(tt.values)
			assert.Positive(t, lo)
			assert.Less(t, lo, hi)
			assert.LessOrEqual(t, lo, tt.min)
			assert.GreaterOrEqual(t, hi, tt.max)
		})
	}

	t.Run("long_tail", func(t *testing.T) {
		values := make([]float64, 512)
		for i := range values {
			values[i] = 1e4 / float64(i+1)
		}
		lo, hi := decayplot.YRange(values)
		assert.InDelta(t, 1e4/512, lo, 1e-9)
		assert.InDelta(t, 1e4, hi, 1e-9)
	})
}

func TestRender_SVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.svg")
	require.NoError(t, decayplot.Render(path, []float64{9, 3, 1}, decayplot.Options{Channel: "G"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
}

func TestRender_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.html")
	require.NoError(t, decayplot.Render(path, []float64{9, 3, 0, 1}, decayplot.Options{Channel: "R"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(b)
	assert.Contains(t, html, "Singular Values Dropoff (R channel)")
	assert.Contains(t, html, `"type":"log"`)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported_format", func(t *testing.T) {
		path := filepath.Join(dir, "plot.gif")
		err := decayplot.Render(path, []float64{3, 2, 1}, decayplot.Options{})
		require.ErrorIs(t, err, decayplot.ErrUnsupportedFormat)
		assert.NoFileExists(t, path)
	})

	t.Run("no_extension_is_png", func(t *testing.T) {
		path := filepath.Join(dir, "plot")
		require.NoError(t, decayplot.Render(path, []float64{3, 2, 1}, decayplot.Options{}))
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(b))
		require.NoError(t, err)
	})

	t.Run("missing_directory", func(t *testing.T) {
		err := decayplot.Render(filepath.Join(dir, "missing", "plot.png"), []float64{3, 2, 1}, decayplot.Options{})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
