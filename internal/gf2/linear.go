package gf2

import "github.com/AbdelStark/whitebox-aes-go/internal/aesref"

// MCSRMatrix256 returns the block-diagonal 256x256 matrix for MixColumns
// composed with ShiftRows (MC ∘ SR), applied independently to each of the two
// concatenated 16-byte AES states that make up a 256-bit wide-state block.
// This is the linear layer used by every AES round except the last.
func MCSRMatrix256() Matrix256 {
	return LiftLinear256(func(state *[32]byte) {
		applyMCSR(state[:16])
		applyMCSR(state[16:])
	})
}

// ShiftRowsMatrix256 returns the block-diagonal 256x256 matrix for ShiftRows
// alone, applied independently to each 16-byte half. The final AES round
// omits MixColumns, so its linear layer is ShiftRows only.
func ShiftRowsMatrix256() Matrix256 {
	return LiftLinear256(func(state *[32]byte) {
		applyShiftRows(state[:16])
		applyShiftRows(state[16:])
	})
}

func applyMCSR(state []byte) {
	var block aesref.Block
	copy(block[:], state)
	aesref.ShiftRows(&block)
	aesref.MixColumns(&block)
	copy(state, block[:])
}

func applyShiftRows(state []byte) {
	var block aesref.Block
	copy(block[:], state)
	aesref.ShiftRows(&block)
	copy(state, block[:])
}
