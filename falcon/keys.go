package falcon

import (
	"fmt"

	"Falcon-Signature/fft"
)

// PublicKey is the verification key: the degree and h = g * f^-1 mod q.
type PublicKey struct {
	LogN int
	H    []int64
}

// SecretKey carries the short basis (f, g, F, G), its FFT form and the
// normalized sampling tree. Instances are built by Keygen or, when
// loading stored polynomials, by NewSecretKey; the tree is always
// recomputed rather than persisted.
type SecretKey struct {
	params Params
	f      []int64
	g      []int64
	bigF   []int64
	bigG   []int64
	b0     [4]fft.Poly
	tree   *ldlTree
}

// NewSecretKey assembles a secret key from the four basis polynomials,
// rebuilding the FFT basis and the sampling tree.
func NewSecretKey(logn int, f, g, bigF, bigG []int64) (*SecretKey, error) {
	p, err := NewParams(logn)
	if err != nil {
		return nil, err
	}
	for _, poly := range [][]int64{f, g, bigF, bigG} {
		if len(poly) != p.N {
			return nil, fmt.Errorf("falcon: basis polynomial has length %d, want %d", len(poly), p.N)
		}
	}
	return newSecretKey(p, clone(f), clone(g), clone(bigF), clone(bigG))
}

func newSecretKey(p Params, f, g, bigF, bigG []int64) (*SecretKey, error) {
	b0 := [4]fft.Poly{
		fft.FFT(toFloats(g)),
		fft.Neg(fft.FFT(toFloats(f))),
		fft.FFT(toFloats(bigG)),
		fft.Neg(fft.FFT(toFloats(bigF))),
	}
	tree, err := ffldl(gram(b0))
	if err != nil {
		return nil, err
	}
	normalizeTree(tree, p.Sigma)
	return &SecretKey{
		params: p,
		f:      f,
		g:      g,
		bigF:   bigF,
		bigG:   bigG,
		b0:     b0,
		tree:   tree,
	}, nil
}

// Params returns the parameter set the key was generated for.
func (sk *SecretKey) Params() Params { return sk.params }

// Basis returns copies of the four stored basis polynomials in the
// order f, g, F, G.
func (sk *SecretKey) Basis() (f, g, bigF, bigG []int64) {
	return clone(sk.f), clone(sk.g), clone(sk.bigF), clone(sk.bigG)
}

// PublicKey derives the verification key h = g * f^-1 mod q.
func (sk *SecretKey) PublicKey() (*PublicKey, error) {
	fInv, err := invertModQ(sk.f)
	if err != nil {
		return nil, err
	}
	return &PublicKey{LogN: sk.params.LogN, H: mulModQ(sk.g, fInv)}, nil
}

func clone(a []int64) []int64 {
	return append([]int64(nil), a...)
}

func toFloats(a []int64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = float64(v)
	}
	return out
}
