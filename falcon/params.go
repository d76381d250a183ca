package falcon

import "fmt"

// Q is the NTRU modulus shared by every parameter set.
const Q = 12289

const (
	// SaltLen is the length in bytes of the signature salt.
	SaltLen = 40
	// headerBase plus logn forms the first byte of an encoded signature.
	headerBase = 0x30
	// maxSigCoeff bounds the magnitude the signature codec can carry.
	maxSigCoeff = 2047
)

// Params bundles the constants of one degree of the scheme. Degrees
// below 512 provide no meaningful security and exist for testing.
type Params struct {
	N        int     // ring degree, a power of two
	LogN     int     // log2(N)
	Sigma    float64 // standard deviation of signature vectors
	SigMin   float64 // floor handed to the integer Gaussian sampler
	SigBound int64   // acceptance bound on the squared signature norm
	SigBytes int     // total length in bytes of an encoded signature
}

// One row per degree 2^1 .. 2^10, indexed by logn.
var paramTable = [11]Params{
	1:  {N: 2, LogN: 1, Sigma: 144.81253976308423, SigMin: 1.1165085072329104, SigBound: 101498, SigBytes: 44},
	2:  {N: 4, LogN: 2, Sigma: 146.83798833523608, SigMin: 1.1321247692325274, SigBound: 208714, SigBytes: 47},
	3:  {N: 8, LogN: 3, Sigma: 148.83587593064718, SigMin: 1.147528535373367, SigBound: 428865, SigBytes: 52},
	4:  {N: 16, LogN: 4, Sigma: 151.78340713845503, SigMin: 1.170254078853483, SigBound: 892039, SigBytes: 63},
	5:  {N: 32, LogN: 5, Sigma: 154.6747794602761, SigMin: 1.1925466358390344, SigBound: 1852696, SigBytes: 82},
	6:  {N: 64, LogN: 6, Sigma: 157.51308555044122, SigMin: 1.2144300507766141, SigBound: 3842630, SigBytes: 122},
	7:  {N: 128, LogN: 7, Sigma: 160.30114421975344, SigMin: 1.235926056771981, SigBound: 7959734, SigBytes: 200},
	8:  {N: 256, LogN: 8, Sigma: 163.04153322607107, SigMin: 1.2570545284063217, SigBound: 16468416, SigBytes: 356},
	9:  {N: 512, LogN: 9, Sigma: 165.7366171829776, SigMin: 1.2778336969128337, SigBound: 34034726, SigBytes: 666},
	10: {N: 1024, LogN: 10, Sigma: 168.38857144654395, SigMin: 1.298280334344292, SigBound: 70265242, SigBytes: 1280},
}

// NewParams returns the parameter set for ring degree 2^logn.
func NewParams(logn int) (Params, error) {
	if logn < 1 || logn > 10 {
		return Params{}, fmt.Errorf("falcon: logn must be in [1,10], got %d", logn)
	}
	return paramTable[logn], nil
}
