package fft

import "math/cmplx"

// Pointwise arithmetic on FFT-form polynomials. Operands must have
// equal length; results are freshly allocated.

// Add returns a + b.
func Add(a, b Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns a - b.
func Sub(a, b Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Neg returns -a.
func Neg(a Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = -a[i]
	}
	return out
}

// Mul returns the Hadamard product a * b, the FFT form of the
// negacyclic product of the underlying polynomials.
func Mul(a, b Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}

// Div returns the pointwise quotient a / b.
func Div(a, b Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = a[i] / b[i]
	}
	return out
}

// Adj returns the pointwise conjugate, the FFT form of the adjoint
// polynomial f(x^-1) mod x^n + 1.
func Adj(a Poly) Poly {
	out := make(Poly, len(a))
	for i := range a {
		out[i] = cmplx.Conj(a[i])
	}
	return out
}

// Scale returns a with every slot multiplied by the real constant c.
func Scale(a Poly, c float64) Poly {
	out := make(Poly, len(a))
	cc := complex(c, 0)
	for i := range a {
		out[i] = a[i] * cc
	}
	return out
}
