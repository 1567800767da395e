package wbaes

import (
	"io"

	"github.com/AbdelStark/whitebox-aes-go/internal/wbtable"
)

// Instance is a complete, immutable white-box AES instance: ten rounds of
// tables plus the external encodings applied before the first round and,
// if present, after the last.
type Instance = wbtable.Instance

// InstanceParams carries an instance's static parameters (scheme, version,
// geometry), written into the serialized header. Load rejects an
// unsupported version; the other fields are not validated.
type InstanceParams = wbtable.InstanceParams

// SchemeID identifies the construction an instance implements.
type SchemeID = wbtable.SchemeID

// SchemeBaekCheonHong2016 is the only scheme this module generates.
const SchemeBaekCheonHong2016 = wbtable.SchemeBaekCheonHong2016

// Save writes inst to w in the stable binary layout documented on
// internal/wbtable's Save.
func Save(w io.Writer, inst *Instance) error {
	if err := wbtable.Save(w, inst); err != nil {
		return wrapErr(KindIO, err)
	}
	return nil
}

// Load reads an instance previously written by Save. It returns a
// KindMalformed error if the stream isn't a valid instance (bad magic,
// truncated, unsupported version, a declared output encoding that's
// actually missing), and a KindIO error on any other read failure.
func Load(r io.Reader) (*Instance, error) {
	inst, err := wbtable.Load(r)
	if err != nil {
		switch err {
		case wbtable.ErrBadMagic, wbtable.ErrUnsupportedVersion, wbtable.ErrTruncated, wbtable.ErrOutputEncodingMissing:
			return nil, wrapErr(KindMalformed, err)
		default:
			return nil, wrapErr(KindIO, err)
		}
	}
	return inst, nil
}
