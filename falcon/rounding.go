package falcon

import "math"

// Coefficient-domain numeric helpers shared by signing and
// verification.

// roundAway implements C99 round semantics: ties away from zero.
func roundAway(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return -int64(math.Floor(-x + 0.5))
}

// roundVec applies roundAway element-wise.
func roundVec(xs []float64) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = roundAway(x)
	}
	return out
}

// centerModQ maps coefficients in [0, Q) to the symmetric interval
// [-(Q-1)/2, (Q-1)/2].
func centerModQ(a []int64) []int64 {
	out := make([]int64, len(a))
	for i, v := range a {
		if v > Q/2 {
			out[i] = v - Q
		} else {
			out[i] = v
		}
	}
	return out
}

// squaredNorm returns the squared euclidean norm of the concatenation
// of the given vectors.
func squaredNorm(vs ...[]int64) int64 {
	var acc int64
	for _, v := range vs {
		for _, c := range v {
			acc += c * c
		}
	}
	return acc
}
