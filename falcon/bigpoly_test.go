package falcon

import (
	"math/big"
	"math/rand"
	"testing"
)

func randBigPoly(r *rand.Rand, n int, limit int64) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = big.NewInt(r.Int63n(2*limit+1) - limit)
	}
	return out
}

// naiveNegacyclic multiplies in Z[x]/(x^n + 1) by the schoolbook rule.
func naiveNegacyclic(a, b []*big.Int) []*big.Int {
	n := len(a)
	out := bigZeros(n)
	t := new(big.Int)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t.Mul(a[i], b[j])
			k := i + j
			if k >= n {
				out[k-n].Sub(out[k-n], t)
			} else {
				out[k].Add(out[k], t)
			}
		}
	}
	return out
}

func equalBigPoly(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

func TestKaramulMatchesNaive(t *testing.T) {
	for _, n := range []int{1, 2, 8, 16} {
		r := rand.New(rand.NewSource(int64(400 + n)))
		for trial := 0; trial < 4; trial++ {
			a := randBigPoly(r, n, 1<<20)
			b := randBigPoly(r, n, 1<<20)
			if !equalBigPoly(karamul(a, b), naiveNegacyclic(a, b)) {
				t.Fatalf("degree %d trial %d: karamul disagrees with schoolbook", n, trial)
			}
		}
	}
}

// TestFieldNormIdentity checks N(a)(x^2) = a(x) * a(-x), the identity
// the solver's descent relies on.
func TestFieldNormIdentity(t *testing.T) {
	for _, n := range []int{2, 8, 16} {
		r := rand.New(rand.NewSource(int64(500 + n)))
		a := randBigPoly(r, n, 1000)
		lifted := liftPoly(fieldNorm(a))
		direct := karamul(a, galoisConjugate(a))
		if !equalBigPoly(lifted, direct) {
			t.Fatalf("degree %d: field norm identity fails", n)
		}
	}
}

func TestGaloisConjugateInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(600))
	a := randBigPoly(r, 8, 1000)
	back := galoisConjugate(galoisConjugate(a))
	if !equalBigPoly(a, back) {
		t.Fatalf("a(-x) applied twice must restore a")
	}
}

func TestBitsizeRounding(t *testing.T) {
	cases := []struct {
		v    int64
		want uint
	}{
		{0, 0},
		{1, 8},
		{-1, 8},
		{255, 8},
		{256, 16},
		{-300, 16},
		{1 << 16, 24},
	}
	for _, c := range cases {
		if got := bitsize(big.NewInt(c.v)); got != c.want {
			t.Fatalf("bitsize(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestLiftPolyShape(t *testing.T) {
	a := bigFromInt([]int64{3, -5})
	lifted := liftPoly(a)
	want := []int64{3, 0, -5, 0}
	for i, w := range want {
		if lifted[i].Cmp(big.NewInt(w)) != 0 {
			t.Fatalf("liftPoly coefficient %d = %v, want %d", i, lifted[i], w)
		}
	}
}
