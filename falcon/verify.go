package falcon

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature reports a well-formed signature that fails the
// norm test.
var ErrInvalidSignature = errors.New("falcon: invalid signature")

// Verify checks sig over msg under pk; nil means valid. Malformed
// encodings are reported with a descriptive error, a failed norm test
// with ErrInvalidSignature.
func Verify(msg, sig []byte, pk *PublicKey) error {
	p, err := NewParams(pk.LogN)
	if err != nil {
		return err
	}
	if len(pk.H) != p.N {
		return fmt.Errorf("falcon: public key has length %d, want %d", len(pk.H), p.N)
	}
	if len(sig) != p.SigBytes {
		return fmt.Errorf("falcon: signature has length %d, want %d", len(sig), p.SigBytes)
	}
	if sig[0] != headerBase+byte(p.LogN) {
		return fmt.Errorf("falcon: unexpected signature header 0x%02x", sig[0])
	}
	salt := sig[1 : 1+SaltLen]
	s1, err := decompress(sig[1+SaltLen:], p.N)
	if err != nil {
		return err
	}

	// s0 = point - s1*h mod q, centered; (s0, s1) must be short.
	hashed := hashToPoint(salt, msg, p.N)
	prod := mulModQ(s1, pk.H)
	s0 := make([]int64, p.N)
	for i := range s0 {
		v := hashed[i] - prod[i]
		if v < 0 {
			v += Q
		}
		s0[i] = v
	}
	s0 = centerModQ(s0)
	if squaredNorm(s0, s1) > p.SigBound {
		return ErrInvalidSignature
	}
	return nil
}
