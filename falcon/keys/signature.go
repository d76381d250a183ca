package keys

import (
	"encoding/base64"
	"fmt"
	"time"
)

// SignatureFile bundles an encoded signature with enough context to
// audit it later.
type SignatureFile struct {
	Version           string `json:"version"`
	Timestamp         string `json:"timestamp"`
	LogN              int    `json:"logn"`
	Signature         string `json:"signature"`
	PublicFingerprint string `json:"public_fingerprint"`
}

const signatureVersion = "falcon-signature-v1"

// NewSignatureFile wraps raw signature bytes for persistence.
func NewSignatureFile(logn int, sig []byte, fingerprint string) *SignatureFile {
	return &SignatureFile{
		Version:           signatureVersion,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		LogN:              logn,
		Signature:         base64.StdEncoding.EncodeToString(sig),
		PublicFingerprint: fingerprint,
	}
}

// SaveSignature writes the bundle to path.
func SaveSignature(path string, s *SignatureFile) error {
	return writeJSON(path, s)
}

// LoadSignature reads a bundle and decodes the signature bytes.
func LoadSignature(path string) (*SignatureFile, []byte, error) {
	var doc SignatureFile
	if err := readJSON(path, &doc); err != nil {
		return nil, nil, err
	}
	if doc.Version != signatureVersion {
		return nil, nil, fmt.Errorf("keys: unsupported version %q", doc.Version)
	}
	sig, err := base64.StdEncoding.DecodeString(doc.Signature)
	if err != nil {
		return nil, nil, fmt.Errorf("keys: decoding signature: %w", err)
	}
	return &doc, sig, nil
}
