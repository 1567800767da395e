package gf2

import (
	"math/rand/v2"
	"testing"
)

// seededReader turns a math/rand/v2 ChaCha8 source into an io.Reader, for
// deterministic test vectors without reaching for the real entropy source.
type seededReader struct{ src *rand.ChaCha8 }

func newSeededReader(seed byte) *seededReader {
	var s [32]byte
	for i := range s {
		s[i] = seed
	}
	return &seededReader{src: rand.NewChaCha8(s)}
}

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Uint64())
	}
	return len(p), nil
}

func TestMatrix8InversionRoundtrip(t *testing.T) {
	rng := newSeededReader(1)
	for i := 0; i < 32; i++ {
		m := RandomInvertibleMatrix8(rng)
		inv, ok := m.Invert()
		if !ok {
			t.Fatalf("trial %d: expected invertible", i)
		}
		if !m.Mul(inv).Equal(IdentityMatrix8()) {
			t.Fatalf("trial %d: m * inv != identity", i)
		}
	}
}

func TestMatrix8ApplyInverseRecoversInput(t *testing.T) {
	rng := newSeededReader(2)
	for i := 0; i < 32; i++ {
		m := RandomInvertibleMatrix8(rng)
		inv, _ := m.Invert()
		var buf [1]byte
		rng.Read(buf[:])
		out := m.Apply(buf[0])
		if inv.Apply(out) != buf[0] {
			t.Fatalf("trial %d: inverse did not recover input", i)
		}
	}
}

func TestMatrix256SparseStructure(t *testing.T) {
	rng := newSeededReader(3)
	m := RandomSparseUnsplit256(rng)
	for rowBlock := 0; rowBlock < 32; rowBlock++ {
		for colBlock := 0; colBlock < 32; colBlock++ {
			allowed := colBlock == rowBlock ||
				colBlock == rowBlock+1 ||
				(rowBlock == 31 && colBlock == 0)
			block := m.Block(rowBlock, colBlock)
			if !allowed && !block.Equal(ZeroMatrix8()) {
				t.Fatalf("row block %d, col block %d: expected zero outside band", rowBlock, colBlock)
			}
		}
	}
}

func TestMatrix256InversionRoundtrip(t *testing.T) {
	rng := newSeededReader(4)
	m := RandomSparseUnsplit256(rng)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible")
	}
	if !m.Mul(inv).Equal(IdentityMatrix256()) {
		t.Fatal("m * inv != identity")
	}
}

func TestMatrix256ApplyInverseRecoversInput(t *testing.T) {
	rng := newSeededReader(5)
	m := RandomSparseUnsplit256(rng)
	inv, _ := m.Invert()
	var value [32]byte
	rng.Read(value[:])
	out := m.ApplyToBytes(value)
	recovered := inv.ApplyToBytes(out)
	if recovered != value {
		t.Fatal("inverse did not recover input")
	}
}

func TestMatrix256BinaryRoundtrip(t *testing.T) {
	rng := newSeededReader(6)
	m := RandomSparseUnsplit256(rng)
	encoded := m.AppendBinary(nil)
	if len(encoded) != BinarySize256 {
		t.Fatalf("unexpected encoded size: got %d, want %d", len(encoded), BinarySize256)
	}
	decoded, err := Matrix256FromBinary(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(m) {
		t.Fatal("decoded matrix does not match original")
	}
}

func TestAffine8Roundtrip(t *testing.T) {
	rng := newSeededReader(10)
	for i := 0; i < 32; i++ {
		aff := RandomAffine8(rng)
		inv, ok := aff.Invert()
		if !ok {
			t.Fatalf("trial %d: expected invertible", i)
		}
		var buf [1]byte
		rng.Read(buf[:])
		enc := aff.Apply(buf[0])
		if inv.Apply(enc) != buf[0] {
			t.Fatalf("trial %d: round trip failed", i)
		}
	}
}

func TestAffine8CompositionMatchesManual(t *testing.T) {
	rng := newSeededReader(11)
	a := RandomAffine8(rng)
	b := RandomAffine8(rng)
	composed := a.Compose(b)
	var buf [1]byte
	rng.Read(buf[:])
	direct := a.Apply(b.Apply(buf[0]))
	viaComposed := composed.Apply(buf[0])
	if direct != viaComposed {
		t.Fatalf("composition mismatch: direct=%#x composed=%#x", direct, viaComposed)
	}
}

func TestAffine256Roundtrip(t *testing.T) {
	rng := newSeededReader(12)
	aff := RandomSparseUnsplitAffine256(rng)
	inv, ok := aff.Invert()
	if !ok {
		t.Fatal("expected invertible")
	}
	var value [32]byte
	rng.Read(value[:])
	enc := aff.Apply(value)
	if inv.Apply(enc) != value {
		t.Fatal("round trip failed")
	}
}

func TestAffine256CompositionMatchesManual(t *testing.T) {
	rng := newSeededReader(13)
	a := RandomSparseUnsplitAffine256(rng)
	b := RandomSparseUnsplitAffine256(rng)
	composed := a.Compose(b)
	var value [32]byte
	rng.Read(value[:])
	direct := a.Apply(b.Apply(value))
	viaComposed := composed.Apply(value)
	if direct != viaComposed {
		t.Fatal("composition mismatch")
	}
}

func TestLiftLinear256MatchesDirectApplication(t *testing.T) {
	m := MCSRMatrix256()
	rng := newSeededReader(20)
	for i := 0; i < 32; i++ {
		var state [32]byte
		rng.Read(state[:])

		expected := state
		applyMCSR(expected[:16])
		applyMCSR(expected[16:])

		actual := m.ApplyToBytes(state)
		if actual != expected {
			t.Fatalf("trial %d: lifted MC∘SR matrix disagrees with direct application", i)
		}
	}
}

func TestShiftRowsMatrix256MatchesDirectApplication(t *testing.T) {
	m := ShiftRowsMatrix256()
	rng := newSeededReader(21)
	for i := 0; i < 32; i++ {
		var state [32]byte
		rng.Read(state[:])

		expected := state
		applyShiftRows(expected[:16])
		applyShiftRows(expected[16:])

		actual := m.ApplyToBytes(state)
		if actual != expected {
			t.Fatalf("trial %d: lifted ShiftRows matrix disagrees with direct application", i)
		}
	}
}

func TestByteColumnMapMatchesApplyToBytes(t *testing.T) {
	rng := newSeededReader(30)
	m := RandomSparseUnsplit256(rng)
	for byteIndex := 0; byteIndex < 32; byteIndex += 7 {
		table := m.ByteColumnMap(byteIndex)
		for value := 0; value < 256; value++ {
			var input [32]byte
			input[byteIndex] = byte(value)
			want := m.ApplyToBytes(input)
			if table[value] != want {
				t.Fatalf("byte index %d, value %d: table disagrees with direct application", byteIndex, value)
			}
		}
	}
}
