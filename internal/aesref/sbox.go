package aesref

import "math/bits"

// sbox and invSbox are generated from the FIPS-197 construction (multiplicative
// inverse in GF(2^8) modulo x^8+x^4+x^3+x+1, composed with the fixed affine
// transform) rather than typed in as magic tables, following the same
// generate-don't-copy convention the rest of this module uses for GF(2) data.
var (
	sbox    [256]byte
	invSbox [256]byte
)

func init() {
	var p, q uint8 = 1, 1
	for {
		// multiply p by 3 in GF(2^8)
		if p&0x80 != 0 {
			p ^= (p << 1) ^ 0x1b
		} else {
			p ^= p << 1
		}

		// divide q by 3, i.e. multiply by 0xf6
		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		if q&0x80 != 0 {
			q ^= 0x09
		}

		xformed := q ^ bits.RotateLeft8(q, 1) ^ bits.RotateLeft8(q, 2) ^
			bits.RotateLeft8(q, 3) ^ bits.RotateLeft8(q, 4)
		sbox[p] = xformed ^ 0x63

		if p == 1 {
			break
		}
	}
	sbox[0] = 0x63 // zero has no multiplicative inverse

	for i, s := range sbox {
		invSbox[s] = byte(i)
	}
}

// SubByte applies the forward S-box to a single byte.
func SubByte(b byte) byte { return sbox[b] }

// InvSubByte applies the inverse S-box to a single byte.
func InvSubByte(b byte) byte { return invSbox[b] }
