package falcon

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"Falcon-Signature/fft"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// testBasis returns a well-conditioned 2x2 FFT basis of ring degree n:
// the diagonal entries get a dominant constant term so no Gram slot
// can vanish, the off-diagonal ones stay small.
func testBasis(n int, seed int64) [4]fft.Poly {
	r := rand.New(rand.NewSource(seed))
	small := func(limit int, boost float64) fft.Poly {
		cs := make([]float64, n)
		for i := range cs {
			cs[i] = float64(r.Intn(2*limit+1) - limit)
		}
		cs[0] += boost
		return fft.FFT(cs)
	}
	return [4]fft.Poly{
		small(1, float64(n)),
		small(1, 0),
		small(1, 0),
		small(1, float64(n)),
	}
}

func TestGramHermitian(t *testing.T) {
	const n = 8
	r := rand.New(rand.NewSource(17))
	var b [4]fft.Poly
	for i := range b {
		cs := make([]float64, n)
		for j := range cs {
			cs[j] = float64(r.Intn(11) - 5)
		}
		b[i] = fft.FFT(cs)
	}
	g := gram(b)
	for i := 0; i < n; i++ {
		if d := cmplx.Abs(g[1][i] - cmplx.Conj(g[2][i])); d > 1e-9 {
			t.Fatalf("slot %d: g01 != adj(g10), delta %g", i, d)
		}
		for _, diag := range []fft.Poly{g[0], g[3]} {
			if math.Abs(imag(diag[i])) > 1e-9 {
				t.Fatalf("slot %d: diagonal block not real: %v", i, diag[i])
			}
			if real(diag[i]) < -1e-9 {
				t.Fatalf("slot %d: diagonal block negative: %v", i, diag[i])
			}
		}
	}
}

func TestLDLReconstruction(t *testing.T) {
	const n = 8
	g := gram(testBasis(n, 23))
	l10, d00, d11 := ldl(g)

	for i := 0; i < n; i++ {
		if d00[i] != g[0][i] {
			t.Fatalf("slot %d: d00 differs from g00", i)
		}
	}
	lo := fft.Mul(l10, d00)
	rec := fft.Add(d11, fft.Mul(fft.Mul(l10, fft.Adj(l10)), d00))
	for i := 0; i < n; i++ {
		if d := cmplx.Abs(lo[i] - g[2][i]); d > 1e-6 {
			t.Fatalf("slot %d: l10*d00 misses g10 by %g", i, d)
		}
		if d := cmplx.Abs(rec[i] - g[3][i]); d > 1e-6 {
			t.Fatalf("slot %d: d11 + |l10|^2 d00 misses g11 by %g", i, d)
		}
	}
}

func collectLeaves(tr *ldlTree, out *[]*ldlTree) {
	if tr.isLeaf() {
		*out = append(*out, tr)
		return
	}
	collectLeaves(tr.left, out)
	collectLeaves(tr.right, out)
}

func TestFfldlTreeShape(t *testing.T) {
	const n = 8
	tree, err := ffldl(gram(testBasis(n, 31)))
	if err != nil {
		t.Fatalf("ffldl: %v", err)
	}
	if len(tree.ell) != n {
		t.Fatalf("root ell has length %d, want %d", len(tree.ell), n)
	}
	if len(tree.left.ell) != n/2 || len(tree.right.ell) != n/2 {
		t.Fatalf("child ell lengths %d/%d, want %d", len(tree.left.ell), len(tree.right.ell), n/2)
	}
	var leaves []*ldlTree
	collectLeaves(tree, &leaves)
	if len(leaves) != n {
		t.Fatalf("tree has %d leaves, want %d", len(leaves), n)
	}
	for i, leaf := range leaves {
		for j, v := range leaf.value {
			if math.Abs(imag(v)) > 1e-9 {
				t.Fatalf("leaf %d value %d not real: %v", i, j, v)
			}
			if real(v) <= 0 {
				t.Fatalf("leaf %d value %d not positive: %v", i, j, v)
			}
		}
	}
}

func TestFfldlRejectsDegenerateGram(t *testing.T) {
	const n = 4
	zero := make(fft.Poly, n)
	_, err := ffldl([4]fft.Poly{zero, zero, zero, zero})
	if !errors.Is(err, ErrIllConditioned) {
		t.Fatalf("ffldl on zero Gram matrix: err = %v, want ErrIllConditioned", err)
	}
}

func TestNormalizeTree(t *testing.T) {
	const n = 8
	const sigma = 1.5
	g := gram(testBasis(n, 47))
	raw, err := ffldl(g)
	if err != nil {
		t.Fatalf("ffldl: %v", err)
	}
	norm, err := ffldl(g)
	if err != nil {
		t.Fatalf("ffldl: %v", err)
	}
	normalizeTree(norm, sigma)

	var rawLeaves, normLeaves []*ldlTree
	collectLeaves(raw, &rawLeaves)
	collectLeaves(norm, &normLeaves)
	for i := range rawLeaves {
		want := sigma / math.Sqrt(real(rawLeaves[i].value[0]))
		got := normLeaves[i].value[0]
		if math.Abs(real(got)-want) > 1e-12 || imag(got) != 0 {
			t.Fatalf("leaf %d: normalized to %v, want %v", i, got, want)
		}
		if normLeaves[i].value[1] != 0 {
			t.Fatalf("leaf %d: second slot not cleared: %v", i, normLeaves[i].value[1])
		}
	}
}

// goldenTree builds the degree-2 tree used by the trace tests: basis
// rows (2, 0) and (1, 1) as constant polynomials give Gram matrix
// [[4 2] [2 2]], hence ell = 1/2 and leaf norms 4 and 1. Normalizing
// with sigma = 1.5 leaves standard deviations 0.75 and 1.5.
func goldenTree(t *testing.T) *ldlTree {
	b := [4]fft.Poly{
		fft.FFT([]float64{2, 0}),
		fft.FFT([]float64{0, 0}),
		fft.FFT([]float64{1, 0}),
		fft.FFT([]float64{1, 0}),
	}
	tree, err := ffldl(gram(b))
	if err != nil {
		t.Fatalf("ffldl: %v", err)
	}
	for i := 0; i < 2; i++ {
		if d := cmplx.Abs(tree.ell[i] - 0.5); d > 1e-12 {
			t.Fatalf("ell slot %d = %v, want 0.5", i, tree.ell[i])
		}
	}
	if got := real(tree.left.value[0]); math.Abs(got-4) > 1e-12 {
		t.Fatalf("left leaf norm %v, want 4", got)
	}
	if got := real(tree.right.value[0]); math.Abs(got-1) > 1e-12 {
		t.Fatalf("right leaf norm %v, want 1", got)
	}
	normalizeTree(tree, 1.5)
	if got := real(tree.left.value[0]); math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("left leaf sigma %v, want 0.75", got)
	}
	if got := real(tree.right.value[0]); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("right leaf sigma %v, want 1.5", got)
	}
	return tree
}

// TestFfSamplingGoldenTrace drives the tree walk with scripted
// randomness so every integer draw returns a known value, then checks
// the exact outputs. The script encodes the whole contract: the right
// subtree consumes randomness before the left one, a leaf draws its
// first slot before its second, and the left target picks up the
// correction (t1 - z1) * ell before sampling.
//
// With targets t0 = (0.9, -1.2) and t1 = (1.7, 2.3), draws 1 and 3
// floor their center and draws 2 and 4 return floor + 1: z1 = (1, 3),
// the corrected t0 becomes (1.25, -1.55), and z0 = (1, -1).
func TestFfSamplingGoldenTrace(t *testing.T) {
	tree := goldenTree(t)
	var script []byte
	script = append(script, floorPattern()...)
	script = append(script, ceilPattern()...)
	script = append(script, floorPattern()...)
	script = append(script, ceilPattern()...)
	tr := &traceReader{script: script}

	t0 := fft.FFT([]float64{0.9, -1.2})
	t1 := fft.FFT([]float64{1.7, 2.3})
	z0, z1 := ffSampling(t0, t1, tree, 0.7, tr)

	if tr.pos != len(script) {
		t.Fatalf("walk consumed %d bytes, want %d", tr.pos, len(script))
	}
	gotZ0 := fft.InvFFT(z0)
	gotZ1 := fft.InvFFT(z1)
	wantZ0 := []float64{1, -1}
	wantZ1 := []float64{1, 3}
	for i := 0; i < 2; i++ {
		if math.Abs(gotZ1[i]-wantZ1[i]) > 1e-9 {
			t.Fatalf("z1[%d] = %v, want %v", i, gotZ1[i], wantZ1[i])
		}
		if math.Abs(gotZ0[i]-wantZ0[i]) > 1e-9 {
			t.Fatalf("z0[%d] = %v, want %v", i, gotZ0[i], wantZ0[i])
		}
	}
}

func TestFfSamplingDeterministic(t *testing.T) {
	tree := goldenTree(t)
	t0 := fft.FFT([]float64{0.9, -1.2})
	t1 := fft.FFT([]float64{1.7, 2.3})

	run := func(key byte) ([]float64, []float64) {
		rng, err := utils.NewKeyedPRNG([]byte{key})
		if err != nil {
			t.Fatalf("NewKeyedPRNG: %v", err)
		}
		z0, z1 := ffSampling(t0, t1, tree, 0.7, rng)
		return fft.InvFFT(z0), fft.InvFFT(z1)
	}
	a0, a1 := run(9)
	b0, b1 := run(9)
	for i := 0; i < 2; i++ {
		if a0[i] != b0[i] || a1[i] != b1[i] {
			t.Fatalf("same seed, different walk at slot %d", i)
		}
	}
}

func TestFfSamplingCentersOnTarget(t *testing.T) {
	const runs = 2000
	tree := goldenTree(t)
	t0 := fft.FFT([]float64{0.9, -1.2})
	t1 := fft.FFT([]float64{1.7, 2.3})

	rng, err := utils.NewKeyedPRNG([]byte{0xC4})
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	var sum0, sum1 [2]float64
	for r := 0; r < runs; r++ {
		z0, z1 := ffSampling(t0, t1, tree, 0.7, rng)
		c0 := fft.InvFFT(z0)
		c1 := fft.InvFFT(z1)
		for i := 0; i < 2; i++ {
			if c0[i] != math.Trunc(c0[i]) || c1[i] != math.Trunc(c1[i]) {
				t.Fatalf("run %d: non-integral output (%v, %v)", r, c0[i], c1[i])
			}
			sum0[i] += c0[i]
			sum1[i] += c1[i]
		}
	}
	want0 := []float64{0.9, -1.2}
	want1 := []float64{1.7, 2.3}
	for i := 0; i < 2; i++ {
		if m := sum1[i] / runs; math.Abs(m-want1[i]) > 0.25 {
			t.Fatalf("z1 mean[%d] = %v, want ~%v", i, m, want1[i])
		}
		if m := sum0[i] / runs; math.Abs(m-want0[i]) > 0.25 {
			t.Fatalf("z0 mean[%d] = %v, want ~%v", i, m, want0[i])
		}
	}
}

