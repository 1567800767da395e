package wbaes

import (
	"encoding/binary"
	"io"
	"math/rand/v2"

	saferand "github.com/ericlagergren/saferand"
)

// seededSource is a deterministic io.Reader over math/rand/v2's ChaCha8
// stream, the standard-library equivalent of the reference construction's
// seeded ChaCha20 RNG: same seed, same byte stream, on any platform.
type seededSource struct {
	src *rand.ChaCha8
}

// NewSeededSource returns a deterministic byte stream derived from seed. The
// generator consumes it strictly sequentially (§5), so the same seed and key
// always produce a byte-identical instance.
func NewSeededSource(seed [32]byte) io.Reader {
	return &seededSource{src: rand.NewChaCha8(seed)}
}

func (s *seededSource) Read(p []byte) (int, error) {
	var buf [8]byte
	n := 0
	for n < len(p) {
		binary.LittleEndian.PutUint64(buf[:], s.src.Uint64())
		n += copy(p[n:], buf[:])
	}
	return n, nil
}

// secureSource adapts saferand's package-level Read (crypto/rand under the
// hood, math/rand-compatible API) to io.Reader.
type secureSource struct{}

func (secureSource) Read(p []byte) (int, error) { return saferand.Read(p) }

// NewSecureSource returns a non-deterministic, cryptographically seeded byte
// stream, for callers that don't need reproducibility (gen/demo without
// --seed).
func NewSecureSource() io.Reader {
	return secureSource{}
}

// DeriveSeed reads a fresh 32-byte seed from rng, for chaining one random
// source into a second, independently-seeded generator (demo draws a key from
// one stream and a generator seed from the same stream).
func DeriveSeed(rng io.Reader) ([32]byte, error) {
	var seed [32]byte
	if _, err := io.ReadFull(rng, seed[:]); err != nil {
		return seed, wrapErr(KindIO, err)
	}
	return seed, nil
}
