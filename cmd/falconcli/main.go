package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"Falcon-Signature/falcon"
	"Falcon-Signature/falcon/keys"
	"Falcon-Signature/prof"

	"github.com/tuneinsight/lattigo/v4/utils"
)

func usage() {
	fmt.Println(`usage: falconcli <gen|sign|verify|info> [options]

Subcommands:
  gen      Generate a key pair and write <dir>/{public,private}.json
           Flags:
             -logn <int>     ring degree exponent, 4..10 (default: 9)
             -dir  <string>  key directory (default: falcon_keys)
             -seed <hex>     optional seed for reproducible keygen

  sign     Sign a message with <dir>/private.json
           Flags:
             -m    <string>  message to sign (required)
             -dir  <string>  key directory (default: falcon_keys)
             -out  <string>  signature bundle path (default: <dir>/signature.json)
             -seed <hex>     optional seed for deterministic signing

  verify   Verify a signature bundle against <dir>/public.json
           Flags:
             -m    <string>  message that was signed (required)
             -dir  <string>  key directory (default: falcon_keys)
             -sig  <string>  signature bundle path (default: <dir>/signature.json)

  info     Print degree and fingerprint of <dir>/public.json`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "sign":
		runSign(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "info":
		runInfo(os.Args[2:])
	default:
		usage()
	}
}

func prngFromSeed(seedHex string) (utils.PRNG, error) {
	if seedHex == "" {
		return utils.NewPRNG()
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return utils.NewKeyedPRNG(seed)
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	logn := fs.Int("logn", 9, "ring degree exponent (4..10)")
	dir := fs.String("dir", keys.DefaultDir, "key directory")
	seedHex := fs.String("seed", "", "hex seed for reproducible keygen")
	fs.Parse(args)

	if *logn < 4 || *logn > 10 {
		log.Fatalf("logn must be in 4..10, got %d", *logn)
	}
	if *logn < 9 {
		fmt.Fprintln(os.Stderr, "warning: logn below 9 is a toy size without a security margin")
	}
	rng, err := prngFromSeed(*seedHex)
	if err != nil {
		log.Fatal(err)
	}
	start := time.Now()
	sk, pk, err := falcon.Keygen(*logn, rng)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	prof.Track(start, "keygen")
	start = time.Now()
	if err := keys.SavePrivate(*dir, sk); err != nil {
		log.Fatalf("save private key: %v", err)
	}
	if err := keys.SavePublic(*dir, pk); err != nil {
		log.Fatalf("save public key: %v", err)
	}
	prof.Track(start, "write keys")
	fmt.Printf("generated logn=%d key pair\n", *logn)
	fmt.Println("fingerprint:", keys.Fingerprint(pk))
	fmt.Println("key directory:", *dir)
	fmt.Println("timings:")
	prof.Report(os.Stdout, prof.SnapshotAndReset())
}

func runSign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	msg := fs.String("m", "", "message to sign")
	dir := fs.String("dir", keys.DefaultDir, "key directory")
	out := fs.String("out", "", "signature bundle path")
	seedHex := fs.String("seed", "", "hex seed for deterministic signing")
	fs.Parse(args)

	if *msg == "" {
		log.Fatal("sign: -m is required")
	}
	if *out == "" {
		*out = filepath.Join(*dir, "signature.json")
	}
	start := time.Now()
	sk, err := keys.LoadPrivate(*dir)
	if err != nil {
		log.Fatalf("load private key: %v", err)
	}
	prof.Track(start, "load key")
	start = time.Now()
	var sig []byte
	if *seedHex == "" {
		sig, err = falcon.Sign([]byte(*msg), sk)
	} else {
		var seed []byte
		seed, err = hex.DecodeString(*seedHex)
		if err != nil {
			log.Fatalf("invalid seed: %v", err)
		}
		sig, err = falcon.SignWithSeed([]byte(*msg), sk, seed)
	}
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	prof.Track(start, "sign")
	pk, err := sk.PublicKey()
	if err != nil {
		log.Fatalf("derive public key: %v", err)
	}
	bundle := keys.NewSignatureFile(sk.Params().LogN, sig, keys.Fingerprint(pk))
	if err := keys.SaveSignature(*out, bundle); err != nil {
		log.Fatalf("save signature: %v", err)
	}
	fmt.Printf("signed %d bytes, %d byte signature at %s\n", len(*msg), len(sig), *out)
	fmt.Println("timings:")
	prof.Report(os.Stdout, prof.SnapshotAndReset())
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	msg := fs.String("m", "", "message that was signed")
	dir := fs.String("dir", keys.DefaultDir, "key directory")
	sigPath := fs.String("sig", "", "signature bundle path")
	fs.Parse(args)

	if *msg == "" {
		log.Fatal("verify: -m is required")
	}
	if *sigPath == "" {
		*sigPath = filepath.Join(*dir, "signature.json")
	}
	pk, err := keys.LoadPublic(*dir)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}
	bundle, sig, err := keys.LoadSignature(*sigPath)
	if err != nil {
		log.Fatalf("load signature: %v", err)
	}
	if bundle.PublicFingerprint != keys.Fingerprint(pk) {
		log.Fatal("verify: signature was made under a different public key")
	}
	start := time.Now()
	if err := falcon.Verify([]byte(*msg), sig, pk); err != nil {
		log.Fatalf("verify: %v", err)
	}
	prof.Track(start, "verify")
	fmt.Println("signature valid")
	fmt.Println("timings:")
	prof.Report(os.Stdout, prof.SnapshotAndReset())
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dir := fs.String("dir", keys.DefaultDir, "key directory")
	fs.Parse(args)

	pk, err := keys.LoadPublic(*dir)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}
	p, err := falcon.NewParams(pk.LogN)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("degree:        n=%d (logn=%d)\n", p.N, p.LogN)
	fmt.Printf("modulus:       q=%d\n", falcon.Q)
	fmt.Printf("signature:     %d bytes, norm bound %d\n", p.SigBytes, p.SigBound)
	fmt.Printf("fingerprint:   %s\n", keys.Fingerprint(pk))
}
