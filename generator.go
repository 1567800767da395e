package wbaes

import (
	"io"

	"github.com/AbdelStark/whitebox-aes-go/internal/aesref"
	"github.com/AbdelStark/whitebox-aes-go/internal/gf2"
	"github.com/AbdelStark/whitebox-aes-go/internal/wbtable"
)

// GeneratorConfig controls optional features of a generated instance.
type GeneratorConfig struct {
	// ExternalEncodings, when true, draws a random output encoding F_out and
	// stores it on the instance as a separate post-step the runtime applies
	// after the tenth round (§4.2's "applied as a separate post-step"
	// option). When false (the default), the instance's tables alone
	// compute plain two-AES-block output and no output encoding is stored.
	ExternalEncodings bool
}

// Generator builds white-box instances from an injected random source,
// consumed strictly sequentially so that identical seed and key always
// produce a byte-identical instance.
type Generator struct {
	rng    io.Reader
	config GeneratorConfig
}

// NewGenerator creates a generator with default configuration.
func NewGenerator(rng io.Reader) *Generator {
	return &Generator{rng: rng}
}

// NewGeneratorWithConfig creates a generator with explicit configuration.
func NewGeneratorWithConfig(rng io.Reader, config GeneratorConfig) *Generator {
	return &Generator{rng: rng, config: config}
}

// GenerateInstance constructs a white-box instance for key. Random draws
// proceed in the fixed order: the ten sparse unsplit inverse round
// encodings A^(r)^-1 (each itself diagonal blocks, then super-diagonal
// blocks, then bias), the output encoding if configured, then per round the
// 32 mask gadgets and the 31 free bias shares.
func (g *Generator) GenerateInstance(key [16]byte) (*Instance, error) {
	roundKeys := aesref.ExpandKey(key)
	mcSR := gf2.MCSRMatrix256()
	srOnly := gf2.ShiftRowsMatrix256()

	// The sparse draw is the inverse encoding, since the round tables read
	// only blocks (i, i) and (i, i+1) of A^(r)^-1; A^(r) itself is dense.
	var aEnc [10]gf2.Affine256
	for r := range aEnc {
		sparse := gf2.RandomSparseUnsplitAffine256(g.rng)
		enc, ok := sparse.Invert()
		if !ok {
			return nil, errorf(KindDomain, "round affine encoding is not invertible")
		}
		aEnc[r] = enc
	}

	var outputEncoding *gf2.Affine256
	if g.config.ExternalEncodings {
		fout := gf2.RandomSparseUnsplitAffine256(g.rng)
		outputEncoding = &fout
	}

	arkK0 := gf2.Affine256{Lin: gf2.IdentityMatrix256(), Bias: duplicateRoundKey(roundKeys[0])}
	inputEncoding := aEnc[0].Compose(arkK0)

	inst := &wbtable.Instance{
		InputEncoding:  inputEncoding,
		OutputEncoding: outputEncoding,
		Params:         wbtable.DefaultParams(),
	}

	identity := gf2.IdentityAffine256()
	for r := 0; r < 10; r++ {
		current := aEnc[r]
		var next gf2.Affine256
		if r < 9 {
			next = aEnc[r+1]
		} else {
			next = identity
		}
		linearLayer := mcSR
		if r == 9 {
			linearLayer = srOnly
		}

		round, err := g.buildRound(current, next, linearLayer, duplicateRoundKey(roundKeys[r+1]))
		if err != nil {
			return nil, err
		}
		inst.Rounds[r] = round
	}

	return inst, nil
}

// buildRound derives the 32 tables for one round: T_i(x, y) =
// B_i(S(a_i(x, y))) XOR b_i XOR h_i(x) XOR h_{(i+1) mod 32}(y), per §4.2.
func (g *Generator) buildRound(current, next gf2.Affine256, linearLayer gf2.Matrix256, roundKey [32]byte) (wbtable.Round, error) {
	currentInv, ok := current.Invert()
	if !ok {
		return wbtable.Round{}, errorf(KindDomain, "round affine encoding is not invertible")
	}

	bLin := next.Lin.Mul(linearLayer)
	bBias := next.Lin.ApplyToBytes(roundKey)
	xorInPlace(&bBias, &next.Bias)

	var bMaps [32][256][32]byte
	for i := range bMaps {
		bMaps[i] = bLin.ByteColumnMap(i)
	}

	var masks [32]wbtable.MaskGadget
	for i := range masks {
		masks[i] = randomMaskGadget(g.rng)
	}

	biases := splitBias(g.rng, bBias)

	return assembleRound(currentInv, &bMaps, biases, masks), nil
}

// assembleRound fills in a round's 32 tables from already-derived per-round
// material: T_i(x, y) = B_i(S(a_i(x, y))) XOR b_i XOR h_i(x) XOR
// h_{(i+1) mod 32}(y). Split out from buildRound so tests can swap in a
// fixed mask set to isolate the telescoping cancellation property from the
// masks' randomness.
func assembleRound(currentInv gf2.Affine256, bMaps *[32][256][32]byte, biases [32][32]byte, masks [32]wbtable.MaskGadget) wbtable.Round {
	round := wbtable.NewRound()
	for i := 0; i < 32; i++ {
		nextIdx := (i + 1) % 32
		diagBlock := currentInv.Lin.Block(i, i)
		superBlock := currentInv.Lin.Block(i, nextIdx)
		aBiasByte := currentInv.Bias[i]
		bMap := &bMaps[i]
		bias := biases[i]
		hCurr := masks[i]
		hNext := masks[nextIdx]

		for x := 0; x < 256; x++ {
			left := diagBlock.Apply(byte(x))
			for y := 0; y < 256; y++ {
				z := left ^ superBlock.Apply(byte(y)) ^ aBiasByte
				t := aesref.SubByte(z)
				value := bMap[t]
				xorInPlace(&value, &bias)
				hx := hCurr.Get(byte(x))
				xorInPlace(&value, &hx)
				hy := hNext.Get(byte(y))
				xorInPlace(&value, &hy)
				round[i].Set(byte(x), byte(y), value)
			}
		}
	}
	return round
}

// splitBias draws 31 uniformly random 256-bit shares and computes the 32nd
// so their XOR equals target, per §4.2 "Splitting the bias".
func splitBias(rng io.Reader, target [32]byte) [32][32]byte {
	var biases [32][32]byte
	var accum [32]byte
	for i := 0; i < 31; i++ {
		if _, err := io.ReadFull(rng, biases[i][:]); err != nil {
			panic("wbaes: splitBias: " + err.Error())
		}
		xorInPlace(&accum, &biases[i])
	}
	last := target
	xorInPlace(&last, &accum)
	biases[31] = last
	return biases
}

func randomMaskGadget(rng io.Reader) wbtable.MaskGadget {
	var entries [256][32]byte
	for i := range entries {
		if _, err := io.ReadFull(rng, entries[i][:]); err != nil {
			panic("wbaes: randomMaskGadget: " + err.Error())
		}
	}
	return wbtable.MaskGadgetFromEntries(entries)
}

// duplicateRoundKey builds the 256-bit round-key vector K_r by duplicating
// a single AES-128 round key across the wide state's two halves.
func duplicateRoundKey(rk [16]byte) [32]byte {
	var out [32]byte
	copy(out[:16], rk[:])
	copy(out[16:], rk[:])
	return out
}

func xorInPlace(dst *[32]byte, src *[32]byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
