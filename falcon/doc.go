// Package falcon implements the Falcon signature scheme over NTRU
// lattices: key generation with the tower-of-fields NTRU solver,
// fast-Fourier trapdoor sampling, signing and verification at q =
// 12289 for ring degrees 2 through 1024.
//
// Signing is hash-then-sample: the message and a fresh salt are mapped
// into the ring, and the secret basis draws a nearby lattice point
// through a discrete Gaussian, so signatures do not leak the basis.
// All randomness flows through an explicit PRNG handle; a keyed PRNG
// replays keys and signatures bit for bit, which the tests rely on.
//
// The sampling path works in double precision floating point and is
// not constant time.
package falcon
