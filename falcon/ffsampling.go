package falcon

import (
	"errors"
	"math"

	"Falcon-Signature/fft"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Fast-Fourier trapdoor sampling. The secret basis B is turned into a
// binary tree by recursive LDL* decomposition of its Gram matrix, the
// tree leaves are normalized to per-direction standard deviations, and
// signing walks the tree to draw a lattice point near the target. Ring
// degree halves at every level, so the walk touches each FFT slot once
// per level.

// ErrIllConditioned reports a basis whose Gram matrix cannot be
// decomposed in double precision.
var ErrIllConditioned = errors.New("falcon: ill-conditioned basis")

// ldlTree is one node of the LDL* tree. Branch nodes keep ell, the
// single nontrivial entry of their level's unit lower-triangular
// factor; leaves (nil children) keep the two scalars of a degree-2
// diagonal block. After normalization a leaf's first scalar is the
// standard deviation for both integer draws at that leaf and its
// second scalar is zero.
type ldlTree struct {
	ell   fft.Poly
	value [2]complex128
	left  *ldlTree
	right *ldlTree
}

func (t *ldlTree) isLeaf() bool { return t.left == nil }

// gram computes G = B * B^adj for the 2x2 FFT-form basis
// [b0 b1; b2 b3]. The result is Hermitian: g[2] = adj(g[1]) and the
// diagonal blocks are self-adjoint.
func gram(b [4]fft.Poly) [4]fft.Poly {
	var g [4]fft.Poly
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			acc := make(fft.Poly, len(b[0]))
			for k := 0; k < 2; k++ {
				acc = fft.Add(acc, fft.Mul(b[2*i+k], fft.Adj(b[2*j+k])))
			}
			g[2*i+j] = acc
		}
	}
	return g
}

// ldl decomposes the Hermitian block [[g0 g1] [g2 g3]] as L*D*L^adj
// with L = [[1 0] [l10 1]] unit lower triangular and D =
// diag(d00, d11). Only the nontrivial entries are materialized.
func ldl(g [4]fft.Poly) (l10, d00, d11 fft.Poly) {
	l10 = fft.Div(g[2], g[0])
	d00 = g[0]
	d11 = fft.Sub(g[3], fft.Mul(fft.Mul(l10, fft.Adj(l10)), g[0]))
	return l10, d00, d11
}

// ffldl builds the sampling tree from a Gram matrix in FFT form.
// A level factors its matrix with ldl, then splits each diagonal block
// into the half-size Gram matrix [[e0 e1] [adj(e1) e0]] of the next
// level. Construction fails with ErrIllConditioned if a vanishing
// diagonal slot sends the decomposition to NaN or Inf; bases inside
// the keygen acceptance region never trigger this.
func ffldl(g [4]fft.Poly) (*ldlTree, error) {
	l10, d00, d11 := ldl(g)
	if !finitePoly(l10) || !finitePoly(d11) {
		return nil, ErrIllConditioned
	}
	if len(g[0]) == 2 {
		return &ldlTree{
			ell:   l10,
			left:  &ldlTree{value: [2]complex128{d00[0], d00[1]}},
			right: &ldlTree{value: [2]complex128{d11[0], d11[1]}},
		}, nil
	}
	e0, e1 := fft.SplitFFT(d00)
	left, err := ffldl([4]fft.Poly{e0, e1, fft.Adj(e1), e0})
	if err != nil {
		return nil, err
	}
	f0, f1 := fft.SplitFFT(d11)
	right, err := ffldl([4]fft.Poly{f0, f1, fft.Adj(f1), f0})
	if err != nil {
		return nil, err
	}
	return &ldlTree{ell: l10, left: left, right: right}, nil
}

func finitePoly(p fft.Poly) bool {
	for _, c := range p {
		re, im := real(c), imag(c)
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return false
		}
	}
	return true
}

// normalizeTree rewrites every leaf from a squared Gram-Schmidt norm
// to the standard deviation used at sampling time, sigma/sqrt(leaf),
// clearing the second slot. Apply exactly once to a freshly built
// tree.
func normalizeTree(t *ldlTree, sigma float64) {
	if t.isLeaf() {
		t.value[0] = complex(sigma/math.Sqrt(real(t.value[0])), 0)
		t.value[1] = 0
		return
	}
	normalizeTree(t.left, sigma)
	normalizeTree(t.right, sigma)
}

// ffSampling draws a lattice point (z0, z1) near the target (t0, t1),
// walking a normalized tree. The right subtree is sampled before the
// left one and a leaf draws z0 before z1: the back-substitution
// t0 + (t1 - z1) * ell needs z1 first, and the PRNG stream is
// positional, so the order is part of the distribution.
func ffSampling(t0, t1 fft.Poly, tree *ldlTree, sigmin float64, rng utils.PRNG) (fft.Poly, fft.Poly) {
	if tree.isLeaf() {
		sigma := real(tree.value[0])
		z0 := SamplerZ(real(t0[0]), sigma, sigmin, rng)
		z1 := SamplerZ(real(t1[0]), sigma, sigmin, rng)
		return fft.Poly{complex(float64(z0), 0)}, fft.Poly{complex(float64(z1), 0)}
	}

	t1e, t1o := fft.SplitFFT(t1)
	z1e, z1o := ffSampling(t1e, t1o, tree.right, sigmin, rng)
	z1 := fft.MergeFFT(z1e, z1o)

	t0p := fft.Add(t0, fft.Mul(fft.Sub(t1, z1), tree.ell))
	t0e, t0o := fft.SplitFFT(t0p)
	z0e, z0o := ffSampling(t0e, t0o, tree.left, sigmin, rng)
	z0 := fft.MergeFFT(z0e, z0o)

	return z0, z1
}
