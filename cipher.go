package wbaes

import "github.com/ericlagergren/subtle"

// Cipher wraps a loaded instance and evaluates it: apply the input external
// encoding, XOR-combine 32 table lookups per round for 10 rounds, then apply
// the output external encoding if present. Allocation-free.
type Cipher struct {
	inst *Instance
}

// NewCipher wraps inst for evaluation. inst must outlive the cipher.
func NewCipher(inst *Instance) *Cipher {
	return &Cipher{inst: inst}
}

// EncryptBlock evaluates the instance on buf in place.
func (c *Cipher) EncryptBlock(buf *[32]byte) {
	c.inst.InputEncoding.ApplyInPlace(buf)

	var acc [32]byte
	for r := 0; r < 10; r++ {
		in := *buf
		acc = [32]byte{}
		round := &c.inst.Rounds[r]
		for i := 0; i < 32; i++ {
			entry := round[i].Get(in[i], in[(i+1)%32])
			xorInPlace(&acc, &entry)
		}
		*buf = acc
	}

	if c.inst.OutputEncoding != nil {
		c.inst.OutputEncoding.ApplyInPlace(buf)
	}
}

// EncryptPair packs two 16-byte blocks into a 32-byte wide state (upper half
// first), evaluates the instance, and returns the two 16-byte halves.
func (c *Cipher) EncryptPair(upper, lower [16]byte) (outUpper, outLower [16]byte) {
	var buf [32]byte
	copy(buf[:16], upper[:])
	copy(buf[16:], lower[:])
	c.EncryptBlock(&buf)
	copy(outUpper[:], buf[:16])
	copy(outLower[:], buf[16:])
	return outUpper, outLower
}

// EncryptBlocks evaluates the instance over every 32-byte block of src,
// appending the result to dst and returning the extended slice. len(src)
// must be a positive multiple of 32. dst and src may point at the same
// underlying array only if they are exactly aligned; any other overlap
// panics.
func (c *Cipher) EncryptBlocks(dst, src []byte) []byte {
	if len(src) == 0 || len(src)%32 != 0 {
		panic("wbaes: EncryptBlocks: src length must be a positive multiple of 32")
	}

	ret, out := subtle.SliceForAppend(dst, len(src))
	if subtle.InexactOverlap(out, src) {
		panic("wbaes: EncryptBlocks: invalid buffer overlap")
	}

	for off := 0; off < len(src); off += 32 {
		var block [32]byte
		copy(block[:], src[off:off+32])
		c.EncryptBlock(&block)
		copy(out[off:off+32], block[:])
	}
	return ret
}
