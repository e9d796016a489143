package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/svdcompress/internal/normalize"
	"gonum.org/v1/gonum/mat"
)

func TestGray(t *testing.T) {
	test := []struct {
		name   string
		rows   int
		cols   int
		data   []float64
		expect []uint8
	}{
		{
			name:   "constant",
			rows:   2,
			cols:   3,
			data:   []float64{7, 7, 7, 7, 7, 7},
			expect: []uint8{0, 0, 0, 0, 0, 0},
		},
		{
			name:   "near_constant",
			rows:   1,
			cols:   2,
			data:   []float64{1, 1 + 1e-9},
			expect: []uint8{0, 0},
		},
		{
			name:   "ramp",
			rows:   1,
			cols:   3,
			data:   []float64{-1, 0, 1},
			expect: []uint8{0, 127, 255},
		},
		{
			name:   "truncates",
			rows:   2,
			cols:   2,
			data:   []float64{0, 1, 2, 3},
			expect: []uint8{0, 85, 170, 255},
		},
		{
			name:   "single_value",
			rows:   1,
			cols:   1,
			data:   []float64{42},
			expect: []uint8{0},
		},
	}

	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			img := normalize.Gray(mat.NewDense(tt.rows, tt.cols, tt.data))

			require.Equal(t, tt.cols, img.Bounds().Dx())
			require.Equal(t, tt.rows, img.Bounds().Dy())
			for i := range tt.rows {
				for j := range tt.cols {
					assert.Equal(t, tt.expect[i*tt.cols+j], img.GrayAt(j, i).Y, "(%d,%d)", i, j)
				}
			}
		})
	}
}

func TestGray_Diagonal(t *testing.T) {
	// the S component is rendered from a diagonal matrix
	img := normalize.Gray(mat.NewDiagDense(3, []float64{10, 5, 0}))

	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(127), img.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), img.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 0).Y)
}
