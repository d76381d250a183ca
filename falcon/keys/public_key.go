package keys

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"Falcon-Signature/falcon"

	"github.com/zeebo/blake3"
)

const (
	// DefaultDir is where the CLIs keep key material.
	DefaultDir = "falcon_keys"

	publicFile  = "public.json"
	privateFile = "private.json"

	keyVersion = "falcon-keys-v1"
)

// PublicKey is the JSON document persisted for a verification key.
type PublicKey struct {
	Version     string  `json:"version"`
	LogN        int     `json:"logn"`
	Q           int     `json:"q"`
	HCoeffs     []int64 `json:"h_coeffs"`
	Fingerprint string  `json:"fingerprint"`
}

// Fingerprint hashes the degree and the public coefficients; it ties
// the private file, the public file and signature bundles together.
func Fingerprint(pk *falcon.PublicKey) string {
	buf := make([]byte, 1+2*len(pk.H))
	buf[0] = byte(pk.LogN)
	for i, c := range pk.H {
		binary.BigEndian.PutUint16(buf[1+2*i:], uint16(c))
	}
	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// SavePublic writes dir/public.json.
func SavePublic(dir string, pk *falcon.PublicKey) error {
	doc := &PublicKey{
		Version:     keyVersion,
		LogN:        pk.LogN,
		Q:           falcon.Q,
		HCoeffs:     pk.H,
		Fingerprint: Fingerprint(pk),
	}
	return writeJSON(filepath.Join(dir, publicFile), doc)
}

// LoadPublic reads dir/public.json and validates it.
func LoadPublic(dir string) (*falcon.PublicKey, error) {
	var doc PublicKey
	if err := readJSON(filepath.Join(dir, publicFile), &doc); err != nil {
		return nil, err
	}
	if doc.Version != keyVersion {
		return nil, fmt.Errorf("keys: unsupported version %q", doc.Version)
	}
	if doc.Q != falcon.Q {
		return nil, fmt.Errorf("keys: modulus %d, want %d", doc.Q, falcon.Q)
	}
	pk := &falcon.PublicKey{LogN: doc.LogN, H: doc.HCoeffs}
	if _, err := falcon.NewParams(doc.LogN); err != nil {
		return nil, err
	}
	if got := Fingerprint(pk); got != doc.Fingerprint {
		return nil, fmt.Errorf("keys: public fingerprint mismatch")
	}
	return pk, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
