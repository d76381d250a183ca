package falcon

import (
	"math/big"

	"Falcon-Signature/fft"
)

// Arbitrary-precision polynomial arithmetic in Z[x]/(x^n + 1) for the
// NTRU equation solver. Coefficients grow to thousands of bits at the
// top of the tower, so everything here runs on big.Int.

func bigFromInt(a []int64) []*big.Int {
	out := make([]*big.Int, len(a))
	for i, v := range a {
		out[i] = big.NewInt(v)
	}
	return out
}

func bigZeros(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
	}
	return out
}

// karatsuba multiplies two length-n coefficient slices into a
// length-2n product, splitting at n/2 until the scalar base case.
func karatsuba(a, b []*big.Int, n int) []*big.Int {
	if n == 1 {
		ab := bigZeros(2)
		ab[0].Mul(a[0], b[0])
		return ab
	}
	n2 := n / 2
	a0, a1 := a[:n2], a[n2:]
	b0, b1 := b[:n2], b[n2:]
	ax := bigZeros(n2)
	bx := bigZeros(n2)
	for i := 0; i < n2; i++ {
		ax[i].Add(a0[i], a1[i])
		bx[i].Add(b0[i], b1[i])
	}
	a0b0 := karatsuba(a0, b0, n2)
	a1b1 := karatsuba(a1, b1, n2)
	axbx := karatsuba(ax, bx, n2)
	for i := 0; i < n; i++ {
		axbx[i].Sub(axbx[i], a0b0[i])
		axbx[i].Sub(axbx[i], a1b1[i])
	}
	ab := bigZeros(2 * n)
	for i := 0; i < n; i++ {
		ab[i].Add(ab[i], a0b0[i])
		ab[i+n].Add(ab[i+n], a1b1[i])
		ab[i+n2].Add(ab[i+n2], axbx[i])
	}
	return ab
}

// karamul is the negacyclic product: karatsuba followed by the
// x^n = -1 fold.
func karamul(a, b []*big.Int) []*big.Int {
	n := len(a)
	ab := karatsuba(a, b, n)
	out := bigZeros(n)
	for i := 0; i < n; i++ {
		out[i].Sub(ab[i], ab[i+n])
	}
	return out
}

// galoisConjugate returns a(-x).
func galoisConjugate(a []*big.Int) []*big.Int {
	out := bigZeros(len(a))
	for i, v := range a {
		if i%2 == 0 {
			out[i].Set(v)
		} else {
			out[i].Neg(v)
		}
	}
	return out
}

// fieldNorm projects a from Z[x]/(x^n + 1) to Z[x]/(x^(n/2) + 1):
// N(a) = ae^2 - x * ao^2 on the even and odd halves.
func fieldNorm(a []*big.Int) []*big.Int {
	n2 := len(a) / 2
	ae := bigZeros(n2)
	ao := bigZeros(n2)
	for i := 0; i < n2; i++ {
		ae[i].Set(a[2*i])
		ao[i].Set(a[2*i+1])
	}
	ae2 := karamul(ae, ae)
	ao2 := karamul(ao, ao)
	res := ae2
	for i := 0; i < n2-1; i++ {
		res[i+1].Sub(res[i+1], ao2[i])
	}
	res[0].Add(res[0], ao2[n2-1])
	return res
}

// liftPoly maps a(x) to a(x^2) in the ring of twice the degree.
func liftPoly(a []*big.Int) []*big.Int {
	out := bigZeros(2 * len(a))
	for i, v := range a {
		out[2*i].Set(v)
	}
	return out
}

// bitsize reports the byte-rounded bit length of |a|; the reduction
// window arithmetic depends on this exact rounding.
func bitsize(a *big.Int) uint {
	bits := uint(a.BitLen())
	return (bits + 7) / 8 * 8
}

func maxBitsize(a []*big.Int) uint {
	var m uint
	for _, v := range a {
		if s := bitsize(v); s > m {
			m = s
		}
	}
	return m
}

// fftAdjusted shifts coefficients down into float64 range and
// transforms them; shift keeps at most 53 significant bits.
func fftAdjusted(a []*big.Int, shift uint) fft.Poly {
	fs := make([]float64, len(a))
	t := new(big.Int)
	for i, v := range a {
		t.Rsh(v, shift)
		fs[i] = float64(t.Int64())
	}
	return fft.FFT(fs)
}
