// Command wbaes drives white-box AES instance generation and evaluation
// from the shell: gen, enc, dec, check, demo.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	wbaes "github.com/AbdelStark/whitebox-aes-go"
	"github.com/AbdelStark/whitebox-aes-go/internal/aesref"
	"github.com/ericlagergren/subtle"
	hex "github.com/tmthrgd/go-hex"
)

const (
	exitSuccess         = 0
	exitUsageError      = 1
	exitIOError         = 2
	exitCorrectnessFail = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return exitUsageError
	}

	switch args[0] {
	case "gen":
		return cmdGen(args[1:])
	case "enc":
		return cmdEnc(args[1:])
	case "dec":
		return cmdDec(args[1:])
	case "check":
		return cmdCheck(args[1:])
	case "demo":
		return cmdDemo(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "wbaes: unknown subcommand %q\n", args[0])
		usage()
		return exitUsageError
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wbaes <gen|enc|dec|check|demo> [flags]")
}

func cmdGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	keyHex := fs.String("key-hex", "", "AES-128 key as 32 hex characters")
	out := fs.String("out", "", "output path for the serialized instance")
	seedHex := fs.String("seed", "", "optional hex RNG seed for reproducible generation")
	externalEncodings := fs.Bool("external-encodings", false, "draw a separate output encoding")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	key, err := parseKeyHex(*keyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes gen: %v\n", err)
		return exitUsageError
	}
	if *out == "" {
		fmt.Fprintln(os.Stderr, "wbaes gen: --out is required")
		return exitUsageError
	}

	rng, err := rngFromSeedFlag(*seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes gen: %v\n", err)
		return exitUsageError
	}

	gen := wbaes.NewGeneratorWithConfig(rng, wbaes.GeneratorConfig{ExternalEncodings: *externalEncodings})
	inst, err := gen.GenerateInstance(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes gen: %v\n", err)
		return exitCodeFor(err)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes gen: create %s: %v\n", *out, err)
		return exitIOError
	}
	defer f.Close()

	if err := wbaes.Save(f, inst); err != nil {
		fmt.Fprintf(os.Stderr, "wbaes gen: save: %v\n", err)
		return exitIOError
	}
	return exitSuccess
}

func cmdEnc(args []string) int {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	instancePath := fs.String("instance", "", "path to the serialized instance")
	inputPath := fs.String("input", "", "plaintext input path")
	outputPath := fs.String("output", "", "ciphertext output path")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if *instancePath == "" || *inputPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "wbaes enc: --instance, --input and --output are required")
		return exitUsageError
	}

	inst, closer, err := wbaes.LoadFile(*instancePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes enc: load instance: %v\n", err)
		return exitCodeFor(err)
	}
	defer closer()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes enc: read %s: %v\n", *inputPath, err)
		return exitIOError
	}
	if len(data) == 0 || len(data)%32 != 0 {
		fmt.Fprintln(os.Stderr, "wbaes enc: input length must be a positive multiple of 32 bytes")
		return exitUsageError
	}

	ciphertext := wbaes.NewCipher(inst).EncryptBlocks(nil, data)

	if err := os.WriteFile(*outputPath, ciphertext, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "wbaes enc: write %s: %v\n", *outputPath, err)
		return exitIOError
	}
	return exitSuccess
}

func cmdDec(args []string) int {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	instancePath := fs.String("instance", "", "path to the serialized instance")
	keyHex := fs.String("key-hex", "", "AES-128 key as 32 hex characters")
	inPath := fs.String("in", "", "ciphertext input path")
	outPath := fs.String("out", "", "plaintext output path")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if *instancePath == "" || *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "wbaes dec: --instance, --in and --out are required")
		return exitUsageError
	}
	key, err := parseKeyHex(*keyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes dec: %v\n", err)
		return exitUsageError
	}

	inst, closer, err := wbaes.LoadFile(*instancePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes dec: load instance: %v\n", err)
		return exitCodeFor(err)
	}
	defer closer()

	if inst.OutputEncoding != nil {
		fmt.Fprintln(os.Stderr, "wbaes dec: instance carries an external output encoding, decryption is not supported")
		return exitUsageError
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes dec: read %s: %v\n", *inPath, err)
		return exitIOError
	}
	if len(data) == 0 || len(data)%32 != 0 {
		fmt.Fprintln(os.Stderr, "wbaes dec: input length must be a positive multiple of 32 bytes")
		return exitUsageError
	}

	roundKeys := aesref.ExpandKey(key)
	for off := 0; off < len(data); off += 32 {
		var upper, lower [16]byte
		copy(upper[:], data[off:off+16])
		copy(lower[:], data[off+16:off+32])
		plainUpper := aesref.DecryptBlock(roundKeys, upper)
		plainLower := aesref.DecryptBlock(roundKeys, lower)
		copy(data[off:off+16], plainUpper[:])
		copy(data[off+16:off+32], plainLower[:])
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "wbaes dec: write %s: %v\n", *outPath, err)
		return exitIOError
	}
	return exitSuccess
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	instancePath := fs.String("instance", "", "path to the serialized instance")
	keyHex := fs.String("key-hex", "", "AES-128 key as 32 hex characters")
	samples := fs.Int("samples", 64, "number of random samples to test")
	seedHex := fs.String("seed", "", "optional hex RNG seed for reproducibility")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	key, err := parseKeyHex(*keyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes check: %v\n", err)
		return exitUsageError
	}

	inst, closer, err := wbaes.LoadFile(*instancePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes check: load instance: %v\n", err)
		return exitCodeFor(err)
	}
	defer closer()

	rng, err := rngFromSeedFlag(*seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes check: %v\n", err)
		return exitUsageError
	}

	cipher := wbaes.NewCipher(inst)
	roundKeys := aesref.ExpandKey(key)

	for i := 0; i < *samples; i++ {
		var block [32]byte
		if _, err := rng.Read(block[:]); err != nil {
			fmt.Fprintf(os.Stderr, "wbaes check: draw sample: %v\n", err)
			return exitIOError
		}
		var upper, lower [16]byte
		copy(upper[:], block[:16])
		copy(lower[:], block[16:])
		wantUpper := aesref.EncryptBlock(roundKeys, upper)
		wantLower := aesref.EncryptBlock(roundKeys, lower)

		actual := block
		cipher.EncryptBlock(&actual)
		matches := subtle.ConstantTimeCompare(actual[:16], wantUpper[:]) == 1 &&
			subtle.ConstantTimeCompare(actual[16:], wantLower[:]) == 1
		if !matches {
			fmt.Fprintf(os.Stderr, "wbaes check: sample %d: white-box output does not match AES\n", i)
			return exitCorrectnessFail
		}
	}
	fmt.Printf("wbaes check: %d samples agree\n", *samples)
	return exitSuccess
}

func cmdDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	seedHex := fs.String("seed", "", "optional hex RNG seed for reproducibility")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	rng, err := rngFromSeedFlag(*seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes demo: %v\n", err)
		return exitUsageError
	}

	var key [16]byte
	if _, err := rng.Read(key[:]); err != nil {
		fmt.Fprintf(os.Stderr, "wbaes demo: draw key: %v\n", err)
		return exitIOError
	}

	genSeed, err := wbaes.DeriveSeed(rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes demo: derive generator seed: %v\n", err)
		return exitIOError
	}
	gen := wbaes.NewGenerator(wbaes.NewSeededSource(genSeed))
	inst, err := gen.GenerateInstance(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wbaes demo: generate instance: %v\n", err)
		return exitCodeFor(err)
	}
	cipher := wbaes.NewCipher(inst)

	var block [32]byte
	if _, err := rng.Read(block[:]); err != nil {
		fmt.Fprintf(os.Stderr, "wbaes demo: draw plaintext: %v\n", err)
		return exitIOError
	}
	plaintextHex := hex.EncodeToString(block[:])

	roundKeys := aesref.ExpandKey(key)
	working := block
	cipher.EncryptBlock(&working)
	ciphertextHex := hex.EncodeToString(working[:])

	var upper, lower [16]byte
	copy(upper[:], working[:16])
	copy(lower[:], working[16:])
	plainUpper := aesref.DecryptBlock(roundKeys, upper)
	plainLower := aesref.DecryptBlock(roundKeys, lower)
	var decrypted [32]byte
	copy(decrypted[:16], plainUpper[:])
	copy(decrypted[16:], plainLower[:])
	decryptedHex := hex.EncodeToString(decrypted[:])

	fmt.Printf("demo key: %s\n", hex.EncodeToString(key[:]))
	fmt.Printf("plaintext: %s\n", plaintextHex)
	fmt.Printf("ciphertext: %s\n", ciphertextHex)
	fmt.Printf("decrypted: %s\n", decryptedHex)

	if decryptedHex != plaintextHex {
		fmt.Fprintln(os.Stderr, "wbaes demo: roundtrip mismatch")
		return exitCorrectnessFail
	}
	return exitSuccess
}

func parseKeyHex(s string) ([16]byte, error) {
	var key [16]byte
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("decode key hex: %w", err)
	}
	if len(decoded) != 16 {
		return key, fmt.Errorf("AES-128 key must be 16 bytes (32 hex characters), got %d", len(decoded))
	}
	copy(key[:], decoded)
	return key, nil
}

func rngFromSeedFlag(seedHex string) (io.Reader, error) {
	if seedHex == "" {
		return wbaes.NewSecureSource(), nil
	}
	decoded, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode seed hex: %w", err)
	}
	var seed [32]byte
	if len(decoded) == 0 || len(decoded) > 32 {
		return nil, fmt.Errorf("seed hex must decode to between 1 and 32 bytes, got %d", len(decoded))
	}
	copy(seed[32-len(decoded):], decoded)
	return wbaes.NewSeededSource(seed), nil
}

func exitCodeFor(err error) int {
	wbErr, ok := err.(*wbaes.Error)
	if !ok {
		return exitIOError
	}
	switch wbErr.Kind {
	case wbaes.KindInvalidArgument:
		return exitUsageError
	case wbaes.KindIO:
		return exitIOError
	case wbaes.KindMalformed:
		return exitUsageError
	case wbaes.KindDomain:
		return exitIOError
	case wbaes.KindMismatch:
		return exitCorrectnessFail
	default:
		return exitIOError
	}
}
