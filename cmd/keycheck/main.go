package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"Falcon-Signature/falcon"
	"Falcon-Signature/falcon/keys"
)

// keycheck audits a key directory: the private key must rederive the
// stored public key, and a probe signature made with the private half
// must verify under the public half.

func maxAbs(vals []int64) int64 {
	var m int64
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

func main() {
	fs := flag.NewFlagSet("keycheck", flag.ExitOnError)
	dir := fs.String("dir", keys.DefaultDir, "key directory")
	fs.Parse(os.Args[1:])

	sk, err := keys.LoadPrivate(*dir)
	if err != nil {
		log.Fatalf("load private: %v", err)
	}
	pk, err := keys.LoadPublic(*dir)
	if err != nil {
		log.Fatalf("load public: %v", err)
	}

	derived, err := sk.PublicKey()
	if err != nil {
		log.Fatalf("derive public key: %v", err)
	}
	if keys.Fingerprint(derived) != keys.Fingerprint(pk) {
		log.Fatal("public.json does not match the private key")
	}

	f, g, F, G := sk.Basis()
	p := sk.Params()
	fmt.Printf("degree:       n=%d (logn=%d)\n", p.N, p.LogN)
	fmt.Printf("fingerprint:  %s\n", keys.Fingerprint(pk))
	fmt.Printf("basis Linf:   f=%d g=%d F=%d G=%d\n", maxAbs(f), maxAbs(g), maxAbs(F), maxAbs(G))

	probe := []byte("keycheck probe")
	sig, err := falcon.SignWithSeed(probe, sk, []byte("keycheck"))
	if err != nil {
		log.Fatalf("probe signature: %v", err)
	}
	if err := falcon.Verify(probe, sig, pk); err != nil {
		log.Fatalf("probe verification: %v", err)
	}
	fmt.Printf("probe:        signed and verified (%d bytes)\n", len(sig))
	fmt.Println("key pair is consistent")
}
