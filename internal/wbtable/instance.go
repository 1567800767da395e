package wbtable

import (
	"golang.org/x/exp/slices"

	"github.com/AbdelStark/whitebox-aes-go/internal/gf2"
)

// SchemeID identifies the construction an instance implements.
type SchemeID uint32

// SchemeBaekCheonHong2016 is the only scheme this module generates:
// Baek-Cheon-Hong, "White-Box AES Implementation Revisited" (JCN 2016).
const SchemeBaekCheonHong2016 SchemeID = 1

// CurrentVersion is the instance format version this package writes.
const CurrentVersion uint32 = 1

// InstanceParams carries the static parameters of an instance, written into
// the serialized header. Load rejects an unsupported Version; the other
// fields are read back as stored and not validated.
type InstanceParams struct {
	Rounds          uint32
	BlockBytes      uint32
	TableInputBits  uint32
	TableOutputBits uint32
	MaBits          uint32
	Scheme          SchemeID
	Version         uint32
}

// DefaultParams returns the parameters for a standard 10-round, 32-byte-wide
// instance.
func DefaultParams() InstanceParams {
	return InstanceParams{
		Rounds:          10,
		BlockBytes:      32,
		TableInputBits:  16,
		TableOutputBits: 256,
		MaBits:          256,
		Scheme:          SchemeBaekCheonHong2016,
		Version:         CurrentVersion,
	}
}

// Instance is a complete, immutable white-box AES instance: ten rounds of
// tables plus the external encodings applied before the first and, if
// present, after the last.
type Instance struct {
	Rounds         [10]Round
	InputEncoding  gf2.Affine256
	OutputEncoding *gf2.Affine256
	Params         InstanceParams
}

// Equal reports whether two instances have byte-identical tables and
// encodings. Used by tests verifying save/load round trips.
func (inst *Instance) Equal(other *Instance) bool {
	if inst.Params != other.Params {
		return false
	}
	if !inst.InputEncoding.Equal(other.InputEncoding) {
		return false
	}
	if (inst.OutputEncoding == nil) != (other.OutputEncoding == nil) {
		return false
	}
	if inst.OutputEncoding != nil && !inst.OutputEncoding.Equal(*other.OutputEncoding) {
		return false
	}
	for r := range inst.Rounds {
		for i := range inst.Rounds[r] {
			if !slices.Equal(inst.Rounds[r][i].Bytes(), other.Rounds[r][i].Bytes()) {
				return false
			}
		}
	}
	return true
}
