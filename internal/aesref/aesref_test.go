package aesref

import (
	"encoding/hex"
	"testing"
)

func unhex16(t *testing.T, s string) [16]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	var out [16]byte
	copy(out[:], b)
	return out
}

// TestFIPS197Vector checks the well-known FIPS-197 Appendix B vector.
func TestFIPS197Vector(t *testing.T) {
	key := unhex16(t, "000102030405060708090a0b0c0d0e0f")
	plain := unhex16(t, "00112233445566778899aabbccddeeff")
	wantCt := unhex16(t, "69c4e0d86a7b0430d8cdb78070b4c55a")

	rk := ExpandKey(key)
	ct := EncryptBlock(rk, plain)
	if ct != wantCt {
		t.Fatalf("encrypt mismatch: got %x, want %x", ct, wantCt)
	}

	pt := DecryptBlock(rk, ct)
	if pt != plain {
		t.Fatalf("decrypt mismatch: got %x, want %x", pt, plain)
	}
}

func TestEncryptDecryptRoundTripRandom(t *testing.T) {
	var key, block [16]byte
	for i := range key {
		key[i] = byte(17 * i)
	}
	for i := range block {
		block[i] = byte(99 + 31*i)
	}
	for trial := 0; trial < 50; trial++ {
		key[trial%16] ^= byte(trial)
		block[(trial*3)%16] ^= byte(trial * 7)

		rk := ExpandKey(key)
		ct := EncryptBlock(rk, block)
		pt := DecryptBlock(rk, ct)
		if pt != block {
			t.Fatalf("trial %d: round trip failed: got %x, want %x", trial, pt, block)
		}
	}
}

func TestSboxIsInverseOfInvSbox(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if InvSubByte(SubByte(b)) != b {
			t.Fatalf("sbox/invSbox mismatch at %#x", b)
		}
	}
}
