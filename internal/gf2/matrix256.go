package gf2

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// Matrix256 is a 256x256 matrix over GF(2), stored row-major with each row
// packed into four uint64 segments (bit i of the row is entry at column i).
type Matrix256 struct {
	rows [256][4]uint64
}

// ZeroMatrix256 returns the all-zero 256x256 matrix.
func ZeroMatrix256() Matrix256 { return Matrix256{} }

// IdentityMatrix256 returns the 256x256 identity matrix.
func IdentityMatrix256() Matrix256 {
	var m Matrix256
	for i := range m.rows {
		m.rows[i][i/64] |= 1 << uint(i%64)
	}
	return m
}

func (m *Matrix256) bit(row, col int) bool {
	return (m.rows[row][col/64]>>uint(col%64))&1 == 1
}

func (m *Matrix256) setBit(row, col int, v bool) {
	mask := uint64(1) << uint(col%64)
	if v {
		m.rows[row][col/64] |= mask
	} else {
		m.rows[row][col/64] &^= mask
	}
}

// Block returns the 8x8 sub-matrix at block position (rowBlock, colBlock),
// each block spanning 8 consecutive rows/columns.
func (m Matrix256) Block(rowBlock, colBlock int) Matrix8 {
	var rows [8]byte
	for r := 0; r < 8; r++ {
		var bits byte
		for c := 0; c < 8; c++ {
			if m.bit(rowBlock*8+r, colBlock*8+c) {
				bits |= 1 << uint(c)
			}
		}
		rows[r] = bits
	}
	return Matrix8{rows: rows}
}

// SetBlock writes an 8x8 sub-matrix at block position (rowBlock, colBlock),
// clearing whatever was previously there.
func (m *Matrix256) SetBlock(rowBlock, colBlock int, block Matrix8) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			m.setBit(rowBlock*8+r, colBlock*8+c, (block.rows[r]>>uint(c))&1 == 1)
		}
	}
}

// RandomSparseUnsplit256 draws a random invertible 256x256 matrix whose
// linear part, viewed as a 32x32 grid of 8x8 blocks, is non-zero only on the
// main diagonal, the cyclic super-diagonal (block (i, i+1 mod 32)), and
// consequently the wrap entry (31, 0). Both diagonal families are
// independently random. Because of the wrap block, invertible diagonal
// blocks alone do not make the whole matrix invertible, so the draw is
// retried until an invertible matrix results.
func RandomSparseUnsplit256(rng io.Reader) Matrix256 {
	for {
		var m Matrix256
		for block := 0; block < 32; block++ {
			m.SetBlock(block, block, RandomInvertibleMatrix8(rng))
		}
		for block := 0; block < 31; block++ {
			m.SetBlock(block, block+1, RandomMatrix8(rng))
		}
		m.SetBlock(31, 0, RandomMatrix8(rng))

		if m.IsInvertible() {
			return m
		}
	}
}

// Mul computes self * rhs.
func (m Matrix256) Mul(rhs Matrix256) Matrix256 {
	var result Matrix256
	for rowIdx, row := range m.rows {
		var acc [4]uint64
		for seg, bits := range row {
			for bits != 0 {
				bit := bits0(bits)
				srcRow := seg*64 + bit
				for s := 0; s < 4; s++ {
					acc[s] ^= rhs.rows[srcRow][s]
				}
				bits &= bits - 1
			}
		}
		result.rows[rowIdx] = acc
	}
	return result
}

// Invert attempts Gauss-Jordan inversion over GF(2); ok is false iff the
// matrix is singular.
func (m Matrix256) Invert() (inv Matrix256, ok bool) {
	left := m.rows
	right := IdentityMatrix256().rows

	for col := 0; col < 256; col++ {
		seg, off := col/64, uint(col%64)
		pivot := -1
		for row := col; row < 256; row++ {
			if (left[row][seg]>>off)&1 == 1 {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return Matrix256{}, false
		}
		if pivot != col {
			left[pivot], left[col] = left[col], left[pivot]
			right[pivot], right[col] = right[col], right[pivot]
		}
		for row := 0; row < 256; row++ {
			if row == col {
				continue
			}
			if (left[row][seg]>>off)&1 == 1 {
				for s := 0; s < 4; s++ {
					left[row][s] ^= left[col][s]
					right[row][s] ^= right[col][s]
				}
			}
		}
	}
	return Matrix256{rows: right}, true
}

// IsInvertible reports whether the matrix has full rank.
func (m Matrix256) IsInvertible() bool {
	_, ok := m.Invert()
	return ok
}

// ApplyToBytes applies the matrix to a 256-bit vector given as 32 bytes.
func (m Matrix256) ApplyToBytes(input [32]byte) [32]byte {
	segs := bytesToSegments(input)
	var outSegs [4]uint64
	for rowIdx, row := range m.rows {
		var acc uint64
		for s := 0; s < 4; s++ {
			acc ^= row[s] & segs[s]
		}
		if parity64(acc) == 1 {
			outSegs[rowIdx/64] |= 1 << uint(rowIdx%64)
		}
	}
	return segmentsToBytes(outSegs)
}

// ApplyInPlace applies the matrix to v, overwriting it.
func (m Matrix256) ApplyInPlace(v *[32]byte) { *v = m.ApplyToBytes(*v) }

// Equal reports whether two matrices are identical.
func (m Matrix256) Equal(other Matrix256) bool { return m.rows == other.rows }

// LiftLinear256 builds the matrix for a known-GF(2)-linear transform f by
// evaluating it on each of the 256 standard basis vectors and assembling the
// results as columns (spec: "lifting a byte transformation to a bit matrix").
func LiftLinear256(f func(state *[32]byte)) Matrix256 {
	var basis [256][32]byte
	for bit := 0; bit < 256; bit++ {
		var v [32]byte
		v[bit/8] = 1 << uint(bit%8)
		f(&v)
		basis[bit] = v
	}

	var m Matrix256
	for row := 0; row < 256; row++ {
		for col := 0; col < 256; col++ {
			byteIdx, bitIdx := row/8, row%8
			if (basis[col][byteIdx]>>uint(bitIdx))&1 == 1 {
				m.setBit(row, col, true)
			}
		}
	}
	return m
}

// ByteColumnMap precomputes the map "byte value at position byteIndex -> the
// matrix's image of the one-hot vector with that byte there", for all 256
// values. This is the B_i map spec.md describes: "apply the linear map to
// the one-hot byte at position i without recomputing matrix columns".
func (m Matrix256) ByteColumnMap(byteIndex int) [256][32]byte {
	var basisOutputs [8][32]byte
	for bit := 0; bit < 8; bit++ {
		var input [32]byte
		input[byteIndex] = 1 << uint(bit)
		basisOutputs[bit] = m.ApplyToBytes(input)
	}

	var out [256][32]byte
	for value := 1; value < 256; value++ {
		var acc [32]byte
		v := byte(value)
		for bit := 0; v != 0; bit++ {
			if v&1 == 1 {
				xorBytes32(&acc, &basisOutputs[bit])
			}
			v >>= 1
		}
		out[value] = acc
	}
	return out
}

// AppendBinary appends the matrix's 256 rows (4 little-endian uint64s each)
// to dst, for the instance serialization format.
func (m Matrix256) AppendBinary(dst []byte) []byte {
	var buf [32]byte
	for _, row := range m.rows {
		for s, word := range row {
			binary.LittleEndian.PutUint64(buf[s*8:s*8+8], word)
		}
		dst = append(dst, buf[:]...)
	}
	return dst
}

// BinarySize256 is the encoded size of AppendBinary's output.
const BinarySize256 = 256 * 32

// Matrix256FromBinary decodes a matrix previously written by AppendBinary.
func Matrix256FromBinary(data []byte) (Matrix256, error) {
	if len(data) < BinarySize256 {
		return Matrix256{}, io.ErrUnexpectedEOF
	}
	var m Matrix256
	for row := 0; row < 256; row++ {
		base := row * 32
		for s := 0; s < 4; s++ {
			m.rows[row][s] = binary.LittleEndian.Uint64(data[base+s*8 : base+s*8+8])
		}
	}
	return m, nil
}

func bytesToSegments(b [32]byte) [4]uint64 {
	var out [4]uint64
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return out
}

func segmentsToBytes(segs [4]uint64) [32]byte {
	var out [32]byte
	for i, s := range segs {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], s)
	}
	return out
}

func xorBytes32(dst *[32]byte, src *[32]byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func bits0(b uint64) int { return bits.TrailingZeros64(b) }

func parity64(b uint64) uint64 { return uint64(bits.OnesCount64(b) & 1) }
