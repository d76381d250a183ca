package falcon

import (
	"math"
	"math/big"
	"os"

	"Falcon-Signature/fft"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Key generation: sample (f, g) until the basis is orthogonal enough
// and f is invertible mod q, complete it to a full basis with (F, G),
// then assemble the key pair.

const (
	// sigmaFG is 1.17 * sqrt(Q / 2^13), the deviation of the f and g
	// coefficients at degree 1024; lower degrees sum several draws to
	// keep the same per-coefficient variance.
	sigmaFG = 1.43300980528773
	// gsBound caps the squared Gram-Schmidt norm of accepted bases:
	// 1.17^2 * Q. It also keeps every normalized tree leaf inside the
	// sampler's [SigMin, maxSigma] window.
	gsBound = 1.3689 * Q
)

// genPoly draws one basis polynomial: 4096 sampler draws folded into n
// coefficients.
func genPoly(n int, rng utils.PRNG) []int64 {
	const draws = 4096
	k := draws / n
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		var acc int64
		for j := 0; j < k; j++ {
			acc += SamplerZ(0, sigmaFG, sigmaFG-0.001, rng)
		}
		out[i] = acc
	}
	return out
}

// gsNorm returns the squared Gram-Schmidt norm of the NTRU matrix of
// (f, g): the larger of |(g, -f)|^2 and the squared norm of the
// orthogonalized second row. Degenerate FFT slots push the result to
// +Inf, which callers treat as rejection.
func gsNorm(f, g []int64) float64 {
	ff := toFloats(f)
	gf := toFloats(g)
	first := sqFloat(ff) + sqFloat(gf)

	fFFT := fft.FFT(ff)
	gFFT := fft.FFT(gf)
	den := fft.Add(fft.Mul(fFFT, fft.Adj(fFFT)), fft.Mul(gFFT, fft.Adj(gFFT)))
	ft := fft.InvFFT(fft.Div(fft.Adj(gFFT), den))
	gt := fft.InvFFT(fft.Div(fft.Adj(fFFT), den))
	second := Q * Q * (sqFloat(ft) + sqFloat(gt))
	if math.IsNaN(second) {
		return math.Inf(1)
	}
	return math.Max(first, second)
}

func sqFloat(xs []float64) float64 {
	var acc float64
	for _, x := range xs {
		acc += x * x
	}
	return acc
}

// Keygen samples a key pair for degree 2^logn, reading all randomness
// from rng. Rejected candidates simply advance the PRNG stream, so a
// keyed rng reproduces the same pair.
func Keygen(logn int, rng utils.PRNG) (*SecretKey, *PublicKey, error) {
	p, err := NewParams(logn)
	if err != nil {
		return nil, nil, err
	}
	for attempt := 1; ; attempt++ {
		f := genPoly(p.N, rng)
		g := genPoly(p.N, rng)
		if gsNorm(f, g) > gsBound {
			dbg(os.Stderr, "[keygen] attempt %d: gs norm too large\n", attempt)
			continue
		}
		fInv, err := invertModQ(f)
		if err != nil {
			dbg(os.Stderr, "[keygen] attempt %d: f not invertible\n", attempt)
			continue
		}
		bigF, bigG, err := ntruSolve(bigFromInt(f), bigFromInt(g))
		if err != nil {
			dbg(os.Stderr, "[keygen] attempt %d: %v\n", attempt, err)
			continue
		}
		F, ok := intFromBig(bigF)
		G, ok2 := intFromBig(bigG)
		if !ok || !ok2 {
			dbg(os.Stderr, "[keygen] attempt %d: oversized completion\n", attempt)
			continue
		}
		if !ntruIdentity(bigFromInt(f), bigFromInt(g), bigF, bigG) {
			dbg(os.Stderr, "[keygen] attempt %d: completion fails the ntru identity\n", attempt)
			continue
		}
		sk, err := newSecretKey(p, f, g, F, G)
		if err != nil {
			dbg(os.Stderr, "[keygen] attempt %d: %v\n", attempt, err)
			continue
		}
		return sk, &PublicKey{LogN: logn, H: mulModQ(g, fInv)}, nil
	}
}

// intFromBig narrows solver output; the completion of an accepted
// basis always fits an int64.
func intFromBig(a []*big.Int) ([]int64, bool) {
	out := make([]int64, len(a))
	for i, v := range a {
		if !v.IsInt64() {
			return nil, false
		}
		out[i] = v.Int64()
	}
	return out, true
}
