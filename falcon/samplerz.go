package falcon

import (
	"io"
	"math"
	"math/bits"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Discrete Gaussian sampling over the integers, following the FACCT
// rejection method: a half-Gaussian base sampler driven by a reverse
// cumulative distribution table, a random sign, and a Bernoulli
// acceptance test evaluated in 63-bit fixed point. All randomness is
// read from the caller's PRNG; the number and order of reads is part
// of the sampler's contract, since replaying a seed must replay the
// output exactly.

const (
	// maxSigma is the widest standard deviation the base sampler
	// covers; every call must satisfy sigma <= maxSigma.
	maxSigma = 1.8205
	// inv2MaxSigma2 = 1 / (2 * maxSigma^2).
	inv2MaxSigma2 = 0.15086504887537272

	iLn2    = 1 / math.Ln2
	twoP63  = float64(1 << 63)
	rcdtLen = 9 // bytes per base-sampler draw (72 bits)
)

// rcdt holds the reverse cumulative distribution of the half-Gaussian
// of parameter maxSigma, scaled by 2^72. Rows are 24-bit limbs, most
// significant first.
var rcdt = [18][3]uint32{
	{10745844, 3068844, 3741698},
	{5559083, 1580863, 8248194},
	{2260429, 13669192, 2736639},
	{708981, 4421575, 10046180},
	{169348, 7122675, 4136815},
	{30538, 13063405, 7650655},
	{4132, 14505003, 7826148},
	{417, 16768101, 11363290},
	{31, 8444042, 8086568},
	{1, 12844466, 265321},
	{0, 1232676, 13644283},
	{0, 38047, 9111839},
	{0, 870, 6138264},
	{0, 14, 12545723},
	{0, 0, 3104126},
	{0, 0, 28824},
	{0, 0, 198},
	{0, 0, 1},
}

// expCoeffs approximates exp(-x) on [0, ln 2] in 63-bit fixed point:
// 2^-63 * sum(expCoeffs[12-i] * x^i) ~ exp(-x). Lifted from FACCT.
var expCoeffs = [13]uint64{
	0x00000004741183A3,
	0x00000036548CFC06,
	0x0000024FDCBF140A,
	0x0000171D939DE045,
	0x0000D00CF58F6F84,
	0x000680681CF796E3,
	0x002D82D8305B0FEA,
	0x011111110E066FD0,
	0x0555555555070F00,
	0x155555555581FF00,
	0x400000000002B400,
	0x7FFFFFFFFFFF4800,
	0x8000000000000000,
}

func readBytes(rng utils.PRNG, dst []byte) {
	if _, err := io.ReadFull(rng, dst); err != nil {
		panic(err)
	}
}

// baseSampler draws z0 from the half-Gaussian of parameter maxSigma by
// ranking 72 uniform bits against rcdt. The scan is branchless on the
// table values.
func baseSampler(rng utils.PRNG) int64 {
	var b [rcdtLen]byte
	readBytes(rng, b[:])
	uHi := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	uMid := uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5])
	uLo := uint32(b[6])<<16 | uint32(b[7])<<8 | uint32(b[8])
	var z0 int64
	for i := range rcdt {
		// Borrow chain: cc = 1 iff u < rcdt[i].
		cc := (uLo - rcdt[i][2]) >> 31
		cc = (uMid - rcdt[i][1] - cc) >> 31
		cc = (uHi - rcdt[i][0] - cc) >> 31
		z0 += int64(cc)
	}
	return z0
}

// mulHi63 returns (a * b) >> 63 for operands below 2^63 (2^63 itself
// is allowed for a, covering ccs == 1).
func mulHi63(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi<<1 | lo>>63
}

// approxExp returns an integral approximation of 2^63 * ccs * exp(-x)
// for x in [0, ln 2) and ccs in (0, 1].
func approxExp(x, ccs float64) uint64 {
	y := expCoeffs[0]
	z := uint64(x * twoP63)
	for _, c := range expCoeffs[1:] {
		y = c - mulHi63(z, y)
	}
	return mulHi63(uint64(ccs*twoP63), y)
}

// berExp returns true with probability ccs * exp(-x), consuming
// between one and eight bytes of randomness.
func berExp(x, ccs float64, rng utils.PRNG) bool {
	s := int(x * iLn2)
	r := x - float64(s)*math.Ln2
	if s > 63 {
		s = 63
	}
	z := (2*approxExp(r, ccs) - 1) >> uint(s)
	var b [1]byte
	for i := 56; i >= 0; i -= 8 {
		readBytes(rng, b[:])
		w := int32(b[0]) - int32((z>>uint(i))&0xFF)
		if w != 0 {
			return w < 0
		}
	}
	return false
}

// SamplerZ draws an integer from the discrete Gaussian of center mu
// and standard deviation sigma. sigmin lower-bounds sigma for the
// acceptance rescaling; callers must keep sigmin <= sigma <= maxSigma
// after tree normalization. The run time leaks timing information and
// the implementation makes no constant-time claim.
func SamplerZ(mu, sigma, sigmin float64, rng utils.PRNG) int64 {
	s := int64(math.Floor(mu))
	r := mu - float64(s)
	dss := 1 / (2 * sigma * sigma)
	ccs := sigmin / sigma
	var b [1]byte
	for {
		z0 := baseSampler(rng)
		readBytes(rng, b[:])
		bit := int64(b[0] & 1)
		z := bit + (2*bit-1)*z0
		zf := float64(z) - r
		x := zf*zf*dss - float64(z0*z0)*inv2MaxSigma2
		if berExp(x, ccs, rng) {
			return s + z
		}
	}
}
