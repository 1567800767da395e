package gf2

import "io"

// Affine8 is the 8-bit affine map x -> lin*x XOR bias.
type Affine8 struct {
	Lin  Matrix8
	Bias byte
}

// IdentityAffine8 returns the identity affine map.
func IdentityAffine8() Affine8 { return Affine8{Lin: IdentityMatrix8()} }

// NewAffine8 builds an affine map from its components.
func NewAffine8(lin Matrix8, bias byte) Affine8 { return Affine8{Lin: lin, Bias: bias} }

// RandomAffine8 draws a random invertible affine map from rng.
func RandomAffine8(rng io.Reader) Affine8 {
	var biasBuf [1]byte
	if _, err := io.ReadFull(rng, biasBuf[:]); err != nil {
		panic("gf2: RandomAffine8: " + err.Error())
	}
	return Affine8{Lin: RandomInvertibleMatrix8(rng), Bias: biasBuf[0]}
}

// Apply applies the affine map to value.
func (a Affine8) Apply(value byte) byte { return a.Lin.Apply(value) ^ a.Bias }

// Invert returns the inverse affine map; ok is false iff the linear part is
// singular.
func (a Affine8) Invert() (inv Affine8, ok bool) {
	linInv, ok := a.Lin.Invert()
	if !ok {
		return Affine8{}, false
	}
	return Affine8{Lin: linInv, Bias: linInv.Apply(a.Bias)}, true
}

// Compose returns a ∘ other, i.e. x -> a.Apply(other.Apply(x)).
func (a Affine8) Compose(other Affine8) Affine8 {
	return Affine8{
		Lin:  a.Lin.Mul(other.Lin),
		Bias: a.Lin.Apply(other.Bias) ^ a.Bias,
	}
}

// Affine256 is the 256-bit affine map x -> lin*x XOR bias.
type Affine256 struct {
	Lin  Matrix256
	Bias [32]byte
}

// IdentityAffine256 returns the identity affine map.
func IdentityAffine256() Affine256 { return Affine256{Lin: IdentityMatrix256()} }

// NewAffine256 builds an affine map from its components.
func NewAffine256(lin Matrix256, bias [32]byte) Affine256 {
	return Affine256{Lin: lin, Bias: bias}
}

// RandomSparseUnsplitAffine256 draws a random affine map whose linear part is
// a sparse unsplit banded 256x256 matrix and whose bias is uniformly random.
// Draw order is the linear part (diagonal blocks, then super-diagonal
// blocks) followed by the bias, so two runs from the same seed agree byte
// for byte.
func RandomSparseUnsplitAffine256(rng io.Reader) Affine256 {
	lin := RandomSparseUnsplit256(rng)
	var bias [32]byte
	if _, err := io.ReadFull(rng, bias[:]); err != nil {
		panic("gf2: RandomSparseUnsplitAffine256: " + err.Error())
	}
	return Affine256{Lin: lin, Bias: bias}
}

// Apply applies the affine map to value.
func (a Affine256) Apply(value [32]byte) [32]byte {
	out := a.Lin.ApplyToBytes(value)
	xorBytes32(&out, &a.Bias)
	return out
}

// ApplyInPlace applies the affine map to value, overwriting it.
func (a Affine256) ApplyInPlace(value *[32]byte) { *value = a.Apply(*value) }

// Invert returns the inverse affine map; ok is false iff the linear part is
// singular.
func (a Affine256) Invert() (inv Affine256, ok bool) {
	linInv, ok := a.Lin.Invert()
	if !ok {
		return Affine256{}, false
	}
	return Affine256{Lin: linInv, Bias: linInv.ApplyToBytes(a.Bias)}, true
}

// Compose returns a ∘ other, i.e. x -> a.Apply(other.Apply(x)).
func (a Affine256) Compose(other Affine256) Affine256 {
	bias := a.Lin.ApplyToBytes(other.Bias)
	xorBytes32(&bias, &a.Bias)
	return Affine256{Lin: a.Lin.Mul(other.Lin), Bias: bias}
}

// Equal reports whether two affine maps are identical.
func (a Affine256) Equal(other Affine256) bool {
	return a.Lin.Equal(other.Lin) && a.Bias == other.Bias
}
