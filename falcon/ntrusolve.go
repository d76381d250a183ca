package falcon

import (
	"errors"
	"math"
	"math/big"

	"Falcon-Signature/fft"
)

// Solver for the NTRU equation f*G - g*F = q. The problem is pushed
// down a tower of subfields via the field norm until it becomes a
// scalar Bezout identity, then lifted back up with Babai reduction
// keeping the coefficients short at every level.

var (
	errNoSolution    = errors.New("falcon: ntru equation has no solution")
	errReduceDiverge = errors.New("falcon: babai reduction diverged")
)

var bigOne = big.NewInt(1)

// ntruSolve returns F, G with f*G - g*F = q, or an error when the
// inputs admit no solution (resultants not coprime). Inputs are not
// modified.
func ntruSolve(f, g []*big.Int) (F, G []*big.Int, err error) {
	if len(f) == 1 {
		u := new(big.Int)
		v := new(big.Int)
		d := new(big.Int).GCD(u, v, f[0], g[0])
		if d.Cmp(bigOne) != 0 {
			return nil, nil, errNoSolution
		}
		F = []*big.Int{new(big.Int).Mul(big.NewInt(-Q), v)}
		G = []*big.Int{new(big.Int).Mul(big.NewInt(Q), u)}
		return F, G, nil
	}
	Fp, Gp, err := ntruSolve(fieldNorm(f), fieldNorm(g))
	if err != nil {
		return nil, nil, err
	}
	F = karamul(liftPoly(Fp), galoisConjugate(g))
	G = karamul(liftPoly(Gp), galoisConjugate(f))
	if err := reduceBabai(f, g, F, G); err != nil {
		return nil, nil, err
	}
	return F, G, nil
}

// reduceBabai shortens (F, G) against (f, g) in place. Each round
// windows the operands to 53 significant bits, computes k =
// round((F*adj(f) + G*adj(g)) / (f*adj(f) + g*adj(g))) in floating
// point and subtracts k*(f, g) at the matching scale, until k is zero
// or the operands fit the window of (f, g).
func reduceBabai(f, g, F, G []*big.Int) error {
	size := max(maxBitsize(f), maxBitsize(g), 53)
	fa := fftAdjusted(f, size-53)
	ga := fftAdjusted(g, size-53)
	den := fft.Add(fft.Mul(fa, fft.Adj(fa)), fft.Mul(ga, fft.Adj(ga)))
	for {
		Size := max(maxBitsize(F), maxBitsize(G), 53)
		if Size < size {
			return nil
		}
		Fa := fftAdjusted(F, Size-53)
		Ga := fftAdjusted(G, Size-53)
		num := fft.Add(fft.Mul(Fa, fft.Adj(fa)), fft.Mul(Ga, fft.Adj(ga)))
		kf := fft.InvFFT(fft.Div(num, den))
		zero := true
		for _, x := range kf {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return errReduceDiverge
			}
			if x <= -0.5 || x >= 0.5 {
				zero = false
			}
		}
		if zero {
			return nil
		}
		k := bigFromInt(roundVec(kf))
		fk := karamul(f, k)
		gk := karamul(g, k)
		shift := Size - size
		t := new(big.Int)
		for i := range F {
			F[i].Sub(F[i], t.Lsh(fk[i], shift))
			G[i].Sub(G[i], t.Lsh(gk[i], shift))
		}
	}
}

// ntruIdentity checks f*G - g*F == q exactly.
func ntruIdentity(f, g, F, G []*big.Int) bool {
	lhs := karamul(f, G)
	rhs := karamul(g, F)
	for i := range lhs {
		lhs[i].Sub(lhs[i], rhs[i])
	}
	if lhs[0].Cmp(big.NewInt(Q)) != 0 {
		return false
	}
	for _, c := range lhs[1:] {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}
