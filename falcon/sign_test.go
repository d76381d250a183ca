package falcon

import (
	"bytes"
	"errors"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, pk, err := Keygen(4, keyedRNG(t, 0x71))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	msg := []byte("attack at dawn")
	sig, err := Sign(msg, sk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != sk.Params().SigBytes {
		t.Fatalf("signature length %d, want %d", len(sig), sk.Params().SigBytes)
	}
	if err := Verify(msg, sig, pk); err != nil {
		t.Fatalf("Verify rejects a fresh signature: %v", err)
	}

	if err := Verify([]byte("attack at dusk"), sig, pk); err == nil {
		t.Fatalf("Verify accepted a different message")
	}
	if err := Verify(msg, sig[:len(sig)-1], pk); err == nil {
		t.Fatalf("Verify accepted a truncated signature")
	}
	bad := append([]byte(nil), sig...)
	bad[0] ^= 0x01
	if err := Verify(msg, bad, pk); err == nil {
		t.Fatalf("Verify accepted a corrupted header")
	}
	bad = append([]byte(nil), sig...)
	bad[len(bad)/2] ^= 0x20
	if err := Verify(msg, bad, pk); err == nil {
		t.Fatalf("Verify accepted a corrupted payload")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	skA, _, err := Keygen(4, keyedRNG(t, 0x72))
	if err != nil {
		t.Fatalf("Keygen A: %v", err)
	}
	_, pkB, err := Keygen(4, keyedRNG(t, 0x73))
	if err != nil {
		t.Fatalf("Keygen B: %v", err)
	}
	msg := []byte("cross-key check")
	sig, err := Sign(msg, skA)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	err = Verify(msg, sig, pkB)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify under the wrong key: err = %v, want ErrInvalidSignature", err)
	}
}

func TestSignWithSeedDeterministic(t *testing.T) {
	sk, pk, err := Keygen(4, keyedRNG(t, 0x74))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	msg := []byte("replayable")
	seed := []byte{0xAA, 0xBB}
	sigA, err := SignWithSeed(msg, sk, seed)
	if err != nil {
		t.Fatalf("SignWithSeed: %v", err)
	}
	sigB, err := SignWithSeed(msg, sk, seed)
	if err != nil {
		t.Fatalf("SignWithSeed: %v", err)
	}
	if !bytes.Equal(sigA, sigB) {
		t.Fatalf("same seed produced different signatures")
	}
	if err := Verify(msg, sigA, pk); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	sigC, err := SignWithSeed(msg, sk, []byte{0xAA, 0xBC})
	if err != nil {
		t.Fatalf("SignWithSeed: %v", err)
	}
	if bytes.Equal(sigA, sigC) {
		t.Fatalf("different seeds produced identical signatures")
	}
	if err := Verify(msg, sigC, pk); err != nil {
		t.Fatalf("Verify of reseeded signature: %v", err)
	}
}

func TestSamplePreimageCongruence(t *testing.T) {
	sk, pk, err := Keygen(4, keyedRNG(t, 0x75))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	n := sk.Params().N
	point := hashToPoint([]byte("salt"), []byte("msg"), n)
	s0, s1, err := sk.SamplePreimage(point, keyedRNG(t, 0x76))
	if err != nil {
		t.Fatalf("SamplePreimage: %v", err)
	}
	prod := mulModQ(s1, pk.H)
	for i := 0; i < n; i++ {
		got := (s0[i]+prod[i])%Q + Q
		if got%Q != point[i] {
			t.Fatalf("coefficient %d: s0 + s1*h = %d mod q, want %d", i, got%Q, point[i])
		}
	}
	// The preimage is short on average; signing rejects the rare long
	// draw, so only sanity-check the magnitude here.
	if norm := squaredNorm(s0, s1); norm > 100*sk.Params().SigBound {
		t.Fatalf("preimage norm %d implausibly large", norm)
	}
}

func TestSamplePreimageChecksLength(t *testing.T) {
	sk, _, err := Keygen(4, keyedRNG(t, 0x77))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	if _, _, err := sk.SamplePreimage(make([]int64, 8), keyedRNG(t, 0x78)); err == nil {
		t.Fatalf("SamplePreimage accepted a short target")
	}
}

func TestSignVerifyDegree64(t *testing.T) {
	if testing.Short() {
		t.Skip("keygen at degree 64 is slow in short mode")
	}
	sk, pk, err := Keygen(6, keyedRNG(t, 0x79))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	msg := []byte("degree 64 round trip")
	sig, err := SignWithSeed(msg, sk, []byte{0x01})
	if err != nil {
		t.Fatalf("SignWithSeed: %v", err)
	}
	if err := Verify(msg, sig, pk); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsMalformedInputs(t *testing.T) {
	_, pk, err := Keygen(4, keyedRNG(t, 0x7A))
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	msg := []byte("shape checks")
	if err := Verify(msg, nil, pk); err == nil {
		t.Fatalf("Verify accepted an empty signature")
	}
	badPK := &PublicKey{LogN: 12, H: pk.H}
	sig := make([]byte, 63)
	if err := Verify(msg, sig, badPK); err == nil {
		t.Fatalf("Verify accepted an unsupported degree")
	}
	badPK = &PublicKey{LogN: pk.LogN, H: pk.H[:4]}
	if err := Verify(msg, sig, badPK); err == nil {
		t.Fatalf("Verify accepted a short public key")
	}
}
