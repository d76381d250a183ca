// Package fft implements the negacyclic fast Fourier transform over
// Z[x]/(x^n + 1) in complex double precision, together with the
// split/merge operators that halve the transform size. The trapdoor
// sampler walks its tree with SplitFFT and MergeFFT, so those two must
// be exact inverses of each other; the round trip is pinned by tests.
//
// A polynomial of degree < n is represented in FFT form by its n
// evaluations at the roots of x^n + 1. Arithmetic on FFT-form
// polynomials is pointwise.
package fft

import (
	"fmt"
	"math/cmplx"
)

// MaxN is the largest transform size with a precomputed root table.
const MaxN = 1024

// Poly holds a polynomial in FFT representation: its evaluations at
// the roots of x^n + 1, where n = len(Poly).
type Poly []complex128

// roots[n] lists 2n-th primitive roots of unity in the pairing order
// used by split and merge: roots[n][2i+1] == -roots[n][2i] and
// roots[n][2i]^2 == roots[n/2][i].
var roots = map[int][]complex128{}

func init() {
	roots[2] = []complex128{1i, -1i}
	for n := 4; n <= MaxN; n <<= 1 {
		half := roots[n/2]
		w := make([]complex128, n)
		for i := 0; i < n/2; i++ {
			w[2*i] = cmplx.Sqrt(half[i])
			w[2*i+1] = -w[2*i]
		}
		roots[n] = w
	}
}

func rootsFor(n int) []complex128 {
	w, ok := roots[n]
	if !ok {
		panic(fmt.Sprintf("fft: no root table for size %d", n))
	}
	return w
}

// Split separates a coefficient vector into its even- and odd-index
// halves: f(x) = f0(x^2) + x*f1(x^2).
func Split(f []float64) ([]float64, []float64) {
	h := len(f) / 2
	f0 := make([]float64, h)
	f1 := make([]float64, h)
	for i := 0; i < h; i++ {
		f0[i] = f[2*i]
		f1[i] = f[2*i+1]
	}
	return f0, f1
}

// Merge interleaves two coefficient vectors; the inverse of Split.
func Merge(f0, f1 []float64) []float64 {
	f := make([]float64, 2*len(f0))
	for i := range f0 {
		f[2*i] = f0[i]
		f[2*i+1] = f1[i]
	}
	return f
}

// SplitFFT maps the FFT of f to the FFTs of its even and odd halves,
// each of half the size. MergeFFT undoes it.
func SplitFFT(f Poly) (Poly, Poly) {
	n := len(f)
	w := rootsFor(n)
	f0 := make(Poly, n/2)
	f1 := make(Poly, n/2)
	for i := 0; i < n/2; i++ {
		f0[i] = 0.5 * (f[2*i] + f[2*i+1])
		f1[i] = 0.5 * (f[2*i] - f[2*i+1]) * cmplx.Conj(w[2*i])
	}
	return f0, f1
}

// MergeFFT rebuilds the FFT of f from the FFTs of its halves.
func MergeFFT(f0, f1 Poly) Poly {
	h := len(f0)
	n := 2 * h
	w := rootsFor(n)
	f := make(Poly, n)
	for i := 0; i < h; i++ {
		t := w[2*i] * f1[i]
		f[2*i] = f0[i] + t
		f[2*i+1] = f0[i] - t
	}
	return f
}

// FFT evaluates a real coefficient vector at the roots of x^n + 1.
// len(f) must be a power of two, at least 2 and at most MaxN.
func FFT(f []float64) Poly {
	if len(f) == 2 {
		return Poly{complex(f[0], f[1]), complex(f[0], -f[1])}
	}
	f0, f1 := Split(f)
	return MergeFFT(FFT(f0), FFT(f1))
}

// InvFFT interpolates an evaluation vector back to real coefficients.
// The imaginary parts, which vanish for transforms of real input, are
// discarded.
func InvFFT(f Poly) []float64 {
	if len(f) == 2 {
		return []float64{real(f[0]), imag(f[0])}
	}
	f0, f1 := SplitFFT(f)
	return Merge(InvFFT(f0), InvFFT(f1))
}
