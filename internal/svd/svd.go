package svd

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrFactorize = errors.New("cannot factorize")
	ErrRank      = errors.New("rank out of range")
)

// Decomposition holds the factors of A = U * Σ * Vt.
// U is h x k, S has k entries in descending order and Vt is k x w.
type Decomposition struct {
	U  *mat.Dense
	S  []float64
	Vt *mat.Dense
}

// Decompose computes the singular value decomposition of a.
// The thin factorization is used, which still yields all min(h, w) singular values.
func Decompose(a mat.Matrix) (*Decomposition, error) {
	h, w := a.Dims()
	var result mat.SVD
	if ok := result.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrFactorize, h, w)
	}

	var u, v mat.Dense
	result.UTo(&u)
	result.VTo(&v)

	// Store Vt densely so that row slices are cheap.
	var vt mat.Dense
	vt.CloneFrom(v.T())

	return &Decomposition{
		U:  &u,
		S:  result.Values(nil),
		Vt: &vt,
	}, nil
}

// Rank returns the number of singular values, min(h, w) for a full decomposition.
func (d *Decomposition) Rank() int {
	return len(d.S)
}

// Truncate keeps the first r columns of U, entries of S and rows of Vt.
// The returned factors share memory with d.
func (d *Decomposition) Truncate(r int) (*Decomposition, error) {
	k := d.Rank()
	if r < 1 || r > k {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrRank, r, k)
	}
	h, _ := d.U.Dims()
	_, w := d.Vt.Dims()
	return &Decomposition{
		U:  d.U.Slice(0, h, 0, r).(*mat.Dense),
		S:  d.S[:r:r],
		Vt: d.Vt.Slice(0, r, 0, w).(*mat.Dense),
	}, nil
}

// Sigma returns diag(S).
func (d *Decomposition) Sigma() *mat.DiagDense {
	s := make([]float64, len(d.S))
	copy(s, d.S)
	return mat.NewDiagDense(len(s), s)
}

// Reconstruct returns U * Σ * Vt.
func (d *Decomposition) Reconstruct() *mat.Dense {
	// Scale the columns of U by S instead of materializing Σ.
	var us mat.Dense
	us.Mul(d.U, d.Sigma())

	var res mat.Dense
	res.Mul(&us, d.Vt)
	return &res
}
