package falcon

import "golang.org/x/crypto/sha3"

// hashToPoint maps salt||message to a uniform element of Z_q^n.
// SHAKE256 output is consumed two bytes at a time as a big-endian
// value t, rejected unless t < 5*Q (the largest multiple of Q below
// 2^16), then reduced; the rejection keeps the reduction unbiased.
func hashToPoint(salt, msg []byte, n int) []int64 {
	shake := sha3.NewShake256()
	shake.Write(salt)
	shake.Write(msg)
	out := make([]int64, n)
	var b [2]byte
	for i := 0; i < n; {
		shake.Read(b[:])
		t := uint32(b[0])<<8 | uint32(b[1])
		if t < 5*Q {
			out[i] = int64(t % Q)
			i++
		}
	}
	return out
}
