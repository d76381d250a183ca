package falcon

import "errors"

// Signature payload codec. Each coefficient of s1 is stored as a sign
// bit, its seven low magnitude bits, then the remaining magnitude in
// unary terminated by a one; the payload is zero padded to its fixed
// length. Decoding accepts exactly the canonical encodings: no
// negative zero, no magnitude above maxSigCoeff, no stray bits in the
// padding.

var errEncoding = errors.New("falcon: invalid signature encoding")

type bitWriter struct {
	out []byte
	pos int
}

func (w *bitWriter) put(bit int64) bool {
	if w.pos >= 8*len(w.out) {
		return false
	}
	if bit != 0 {
		w.out[w.pos>>3] |= 0x80 >> uint(w.pos&7)
	}
	w.pos++
	return true
}

type bitReader struct {
	data []byte
	pos  int
}

func (r *bitReader) bit() (int64, bool) {
	if r.pos >= 8*len(r.data) {
		return 0, false
	}
	b := r.data[r.pos>>3] >> (7 - uint(r.pos&7)) & 1
	r.pos++
	return int64(b), true
}

// compress encodes v into exactly slen bytes, reporting false when a
// coefficient is too large or the unary parts overflow the available bytes.
func compress(v []int64, slen int) ([]byte, bool) {
	w := bitWriter{out: make([]byte, slen)}
	for _, c := range v {
		var sign int64
		mag := c
		if c < 0 {
			sign = 1
			mag = -c
		}
		if mag > maxSigCoeff {
			return nil, false
		}
		if !w.put(sign) {
			return nil, false
		}
		for k := 6; k >= 0; k-- {
			if !w.put(mag >> uint(k) & 1) {
				return nil, false
			}
		}
		for j := int64(0); j < mag>>7; j++ {
			if !w.put(0) {
				return nil, false
			}
		}
		if !w.put(1) {
			return nil, false
		}
	}
	return w.out, true
}

// decompress decodes n coefficients and validates canonicity.
func decompress(payload []byte, n int) ([]int64, error) {
	r := bitReader{data: payload}
	v := make([]int64, n)
	for i := 0; i < n; i++ {
		sign, ok := r.bit()
		if !ok {
			return nil, errEncoding
		}
		var mag int64
		for k := 0; k < 7; k++ {
			b, ok := r.bit()
			if !ok {
				return nil, errEncoding
			}
			mag = mag<<1 | b
		}
		var high int64
		for {
			b, ok := r.bit()
			if !ok {
				return nil, errEncoding
			}
			if b == 1 {
				break
			}
			high++
			if high > maxSigCoeff>>7 {
				return nil, errEncoding
			}
		}
		mag |= high << 7
		if sign == 1 {
			if mag == 0 {
				return nil, errEncoding
			}
			mag = -mag
		}
		v[i] = mag
	}
	for r.pos < 8*len(payload) {
		if b, _ := r.bit(); b != 0 {
			return nil, errEncoding
		}
	}
	return v, nil
}
