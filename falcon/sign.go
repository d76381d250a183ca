package falcon

import (
	"fmt"
	"os"

	"Falcon-Signature/fft"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// SamplePreimage draws a short pair (s0, s1) with s0 + s1*h = point
// mod q. The target (point, 0) is carried through the inverse basis
// in FFT form, the tree walk picks a nearby lattice point, and the
// result is mapped back through the basis. Randomness comes entirely
// from rng.
func (sk *SecretKey) SamplePreimage(point []int64, rng utils.PRNG) (s0, s1 []int64, err error) {
	n := sk.params.N
	if len(point) != n {
		return nil, nil, fmt.Errorf("falcon: point has length %d, want %d", len(point), n)
	}
	a, b, c, d := sk.b0[0], sk.b0[1], sk.b0[2], sk.b0[3]

	// (fft(point), 0) * B0^-1, using that det(B0)/q = 1.
	pf := fft.FFT(toFloats(point))
	t0 := fft.Scale(fft.Mul(pf, d), 1.0/Q)
	t1 := fft.Scale(fft.Mul(pf, b), -1.0/Q)

	z0, z1 := ffSampling(t0, t1, sk.tree, sk.params.SigMin, rng)

	// v = z * B0 is the lattice point; s = (point, 0) - v.
	v0 := roundVec(fft.InvFFT(fft.Add(fft.Mul(z0, a), fft.Mul(z1, c))))
	v1 := roundVec(fft.InvFFT(fft.Add(fft.Mul(z0, b), fft.Mul(z1, d))))

	s0 = make([]int64, n)
	s1 = make([]int64, n)
	for i := 0; i < n; i++ {
		s0[i] = point[i] - v0[i]
		s1[i] = -v1[i]
	}
	return s0, s1, nil
}

// Sign signs msg with fresh system randomness.
func Sign(msg []byte, sk *SecretKey) ([]byte, error) {
	rng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	return signWithRNG(msg, sk, rng)
}

// SignWithSeed derives every random choice, the salt included, from
// seed: the same seed, key and message reproduce the same signature.
func SignWithSeed(msg []byte, sk *SecretKey, seed []byte) ([]byte, error) {
	rng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, err
	}
	return signWithRNG(msg, sk, rng)
}

func signWithRNG(msg []byte, sk *SecretKey, rng utils.PRNG) ([]byte, error) {
	p := sk.params
	salt := make([]byte, SaltLen)
	readBytes(rng, salt)
	hashed := hashToPoint(salt, msg, p.N)

	// The salt is drawn once; rejected candidates only advance the
	// sampler stream.
	payloadLen := p.SigBytes - 1 - SaltLen
	for attempt := 1; ; attempt++ {
		s0, s1, err := sk.SamplePreimage(hashed, rng)
		if err != nil {
			return nil, err
		}
		if norm := squaredNorm(s0, s1); norm > p.SigBound {
			dbg(os.Stderr, "[sign] attempt %d: norm %d over bound\n", attempt, norm)
			continue
		}
		payload, ok := compress(s1, payloadLen)
		if !ok {
			dbg(os.Stderr, "[sign] attempt %d: encoding does not fit\n", attempt)
			continue
		}
		sig := make([]byte, 0, p.SigBytes)
		sig = append(sig, headerBase+byte(p.LogN))
		sig = append(sig, salt...)
		sig = append(sig, payload...)
		return sig, nil
	}
}
