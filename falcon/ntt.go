package falcon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Mod-q arithmetic in Z_q[x]/(x^n + 1), backing the public side of the
// scheme: h = g/f in keygen, s1*h in verification. Degrees >= 16 run
// on a Lattigo NTT ring; the smaller test-only degrees evaluate
// directly at the odd powers of a 2n-th root of unity, which the
// Lattigo backend does not accept.

// minLattigoN is the smallest ring degree Lattigo supports.
const minLattigoN = 16

var errNotInvertible = errors.New("falcon: polynomial is not invertible mod q")

var (
	ringMu    sync.Mutex
	ringCache = map[int]*ring.Ring{}
)

func cachedRing(n int) (*ring.Ring, error) {
	ringMu.Lock()
	defer ringMu.Unlock()
	if r, ok := ringCache[n]; ok {
		return r, nil
	}
	r, err := ring.NewRing(n, []uint64{Q})
	if err != nil {
		return nil, fmt.Errorf("falcon: building NTT ring for degree %d: %w", n, err)
	}
	ringCache[n] = r
	return r, nil
}

// mustRing returns the cached ring for a degree already validated by
// NewParams; Q is NTT friendly for every supported power of two.
func mustRing(n int) *ring.Ring {
	r, err := cachedRing(n)
	if err != nil {
		panic(err)
	}
	return r
}

func reduceQ(v int64) uint64 {
	v %= Q
	if v < 0 {
		v += Q
	}
	return uint64(v)
}

func copyToPoly(p *ring.Poly, a []int64) {
	for j, v := range a {
		p.Coeffs[0][j] = reduceQ(v)
	}
}

func polyToInt(p *ring.Poly, n int) []int64 {
	out := make([]int64, n)
	for j := 0; j < n; j++ {
		out[j] = int64(p.Coeffs[0][j])
	}
	return out
}

// mulModQ returns a*b in Z_q[x]/(x^n + 1), coefficients in [0, Q).
func mulModQ(a, b []int64) []int64 {
	n := len(a)
	if n < minLattigoN {
		psi := root2n(n)
		ah := toyNTT(a, psi)
		bh := toyNTT(b, psi)
		for i := range ah {
			ah[i] = ah[i] * bh[i] % Q
		}
		return toyInvNTT(ah, psi)
	}
	r := mustRing(n)
	pa, pb := r.NewPoly(), r.NewPoly()
	copyToPoly(pa, a)
	copyToPoly(pb, b)
	r.MForm(pa, pa)
	r.MForm(pb, pb)
	r.NTT(pa, pa)
	r.NTT(pb, pb)
	out := r.NewPoly()
	r.MulCoeffsMontgomery(pa, pb, out)
	r.InvNTT(out, out)
	r.InvMForm(out, out)
	return polyToInt(out, n)
}

// invertModQ returns f^-1 in Z_q[x]/(x^n + 1), or errNotInvertible if
// an NTT slot of f vanishes.
func invertModQ(f []int64) ([]int64, error) {
	n := len(f)
	if n < minLattigoN {
		psi := root2n(n)
		fh := toyNTT(f, psi)
		for i, v := range fh {
			if v == 0 {
				return nil, errNotInvertible
			}
			fh[i] = powModQ(v, Q-2)
		}
		return toyInvNTT(fh, psi), nil
	}
	r := mustRing(n)
	p := r.NewPoly()
	copyToPoly(p, f)
	r.NTT(p, p)
	for j := 0; j < n; j++ {
		v := p.Coeffs[0][j]
		if v == 0 {
			return nil, errNotInvertible
		}
		p.Coeffs[0][j] = powModQ(v, Q-2)
	}
	r.InvNTT(p, p)
	return polyToInt(p, n), nil
}

// powModQ computes b^e mod Q by square and multiply; Q^2 fits easily
// in a uint64 so no reduction tricks are needed.
func powModQ(b, e uint64) uint64 {
	r := uint64(1)
	b %= Q
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			r = r * b % Q
		}
		b = b * b % Q
	}
	return r
}

// root2n finds a 2n-th root of unity mod Q with psi^n = -1. Q-1 =
// 3*2^12, so one exists for every power of two up to 4096.
func root2n(n int) uint64 {
	for g := uint64(2); ; g++ {
		psi := powModQ(g, (Q-1)/uint64(2*n))
		if powModQ(psi, uint64(n)) == Q-1 {
			return psi
		}
	}
}

// toyNTT evaluates a at psi^(2i+1) for i = 0..n-1, the roots of
// x^n + 1 mod Q. Quadratic, acceptable for the tiny degrees it serves.
func toyNTT(a []int64, psi uint64) []uint64 {
	n := len(a)
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		w := powModQ(psi, uint64(2*i+1))
		x := uint64(1)
		var acc uint64
		for j := 0; j < n; j++ {
			acc = (acc + reduceQ(a[j])*x) % Q
			x = x * w % Q
		}
		out[i] = acc
	}
	return out
}

// toyInvNTT interpolates slot values back to coefficients.
func toyInvNTT(ah []uint64, psi uint64) []int64 {
	n := len(ah)
	psiInv := powModQ(psi, uint64(2*n-1))
	nInv := powModQ(uint64(n), Q-2)
	out := make([]int64, n)
	for j := 0; j < n; j++ {
		var acc uint64
		for i := 0; i < n; i++ {
			w := powModQ(psiInv, uint64((2*i+1)*j))
			acc = (acc + ah[i]*w) % Q
		}
		out[j] = int64(acc * nInv % Q)
	}
	return out
}
