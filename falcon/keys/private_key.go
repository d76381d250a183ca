package keys

import (
	"fmt"
	"path/filepath"

	"Falcon-Signature/falcon"
)

// PrivateKey is the JSON document persisted for a signing key. Only
// the four basis polynomials are stored; the FFT basis and the
// sampling tree are rebuilt on load.
type PrivateKey struct {
	Version     string  `json:"version"`
	LogN        int     `json:"logn"`
	Q           int     `json:"q"`
	Fsmall      []int64 `json:"f"`
	Gsmall      []int64 `json:"g"`
	Fbig        []int64 `json:"F"`
	Gbig        []int64 `json:"G"`
	Fingerprint string  `json:"public_fingerprint"`
}

// SavePrivate writes dir/private.json, stamping it with the derived
// public fingerprint.
func SavePrivate(dir string, sk *falcon.SecretKey) error {
	pk, err := sk.PublicKey()
	if err != nil {
		return err
	}
	f, g, bigF, bigG := sk.Basis()
	doc := &PrivateKey{
		Version:     keyVersion,
		LogN:        sk.Params().LogN,
		Q:           falcon.Q,
		Fsmall:      f,
		Gsmall:      g,
		Fbig:        bigF,
		Gbig:        bigG,
		Fingerprint: Fingerprint(pk),
	}
	return writeJSON(filepath.Join(dir, privateFile), doc)
}

// LoadPrivate reads dir/private.json, rebuilds the secret key and
// checks the stored fingerprint against the rederived public key.
func LoadPrivate(dir string) (*falcon.SecretKey, error) {
	var doc PrivateKey
	if err := readJSON(filepath.Join(dir, privateFile), &doc); err != nil {
		return nil, err
	}
	if doc.Version != keyVersion {
		return nil, fmt.Errorf("keys: unsupported version %q", doc.Version)
	}
	if doc.Q != falcon.Q {
		return nil, fmt.Errorf("keys: modulus %d, want %d", doc.Q, falcon.Q)
	}
	sk, err := falcon.NewSecretKey(doc.LogN, doc.Fsmall, doc.Gsmall, doc.Fbig, doc.Gbig)
	if err != nil {
		return nil, err
	}
	pk, err := sk.PublicKey()
	if err != nil {
		return nil, err
	}
	if got := Fingerprint(pk); got != doc.Fingerprint {
		return nil, fmt.Errorf("keys: private key does not match its public fingerprint")
	}
	return sk, nil
}
