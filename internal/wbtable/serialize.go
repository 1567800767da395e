package wbtable

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/AbdelStark/whitebox-aes-go/internal/gf2"
)

// magic identifies the instance file format; "WBAE" followed by a format
// byte, chosen so a stray text file is rejected immediately.
var magic = [5]byte{'W', 'B', 'A', 'E', 0x31}

const (
	flagOutputEncodingPresent = 1 << 0
)

var (
	// ErrBadMagic means the leading bytes did not match the instance magic.
	ErrBadMagic = errors.New("wbtable: bad magic")
	// ErrUnsupportedVersion means the version field names a format this
	// package cannot read.
	ErrUnsupportedVersion = errors.New("wbtable: unsupported version")
	// ErrTruncated means the stream ended before a complete instance was
	// read.
	ErrTruncated = errors.New("wbtable: truncated instance")
	// ErrOutputEncodingMissing means the flag byte declared an output
	// encoding present but the bytes for it were not found.
	ErrOutputEncodingMissing = errors.New("wbtable: output encoding flagged but missing")
)

// Save writes inst to w in the stable binary layout: magic, version (a
// little-endian uint32), flag byte, the remaining params as six
// little-endian uint32s, input encoding, optional output encoding, then ten
// rounds of 32 raw table payloads each.
func Save(w io.Writer, inst *Instance) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := writeUint32(w, inst.Params.Version); err != nil {
		return err
	}

	var flag byte
	if inst.OutputEncoding != nil {
		flag |= flagOutputEncodingPresent
	}
	if _, err := w.Write([]byte{flag}); err != nil {
		return err
	}

	if err := writeParams(w, inst.Params); err != nil {
		return err
	}
	if err := writeAffine256(w, inst.InputEncoding); err != nil {
		return err
	}
	if inst.OutputEncoding != nil {
		if err := writeAffine256(w, *inst.OutputEncoding); err != nil {
			return err
		}
	}

	for _, round := range inst.Rounds {
		for _, table := range round {
			if _, err := w.Write(table.Bytes()); err != nil {
				return err
			}
		}
	}
	return nil
}

// header holds everything Save writes before the table payloads.
type header struct {
	params         InstanceParams
	inputEncoding  gf2.Affine256
	outputEncoding *gf2.Affine256
}

func readHeader(r io.Reader) (header, error) {
	var h header

	var gotMagic [5]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return h, wrapShortRead(err)
	}
	if gotMagic != magic {
		return h, ErrBadMagic
	}

	version, err := readUint32(r)
	if err != nil {
		return h, wrapShortRead(err)
	}
	if version != CurrentVersion {
		return h, ErrUnsupportedVersion
	}

	var flagBuf [1]byte
	if _, err := io.ReadFull(r, flagBuf[:]); err != nil {
		return h, wrapShortRead(err)
	}
	flag := flagBuf[0]

	params, err := readParams(r)
	if err != nil {
		return h, wrapShortRead(err)
	}
	params.Version = version
	h.params = params

	inputEncoding, err := readAffine256(r)
	if err != nil {
		return h, wrapShortRead(err)
	}
	h.inputEncoding = inputEncoding

	if flag&flagOutputEncodingPresent != 0 {
		aff, err := readAffine256(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return h, ErrOutputEncodingMissing
			}
			return h, err
		}
		h.outputEncoding = &aff
	}
	return h, nil
}

// Load reads an instance previously written by Save, copying every table
// into freshly allocated storage.
func Load(r io.Reader) (*Instance, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		InputEncoding:  h.inputEncoding,
		OutputEncoding: h.outputEncoding,
		Params:         h.params,
	}
	for r2 := range inst.Rounds {
		round := NewRound()
		for i := range round {
			buf := round[i].Bytes()
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, wrapShortRead(err)
			}
		}
		inst.Rounds[r2] = round
	}
	return inst, nil
}

// TablesByteSize is the total size in bytes of the ten rounds' table
// payloads that follow the header in the serialized format.
const TablesByteSize = 10 * 32 * entries * entryBytes

// LoadBytes parses an instance from data, a complete previously-saved
// instance held in memory (typically an mmap'd file), wrapping each table
// directly over a sub-slice of data instead of copying it. data must remain
// valid and unmodified for the lifetime of the returned instance.
func LoadBytes(data []byte) (*Instance, error) {
	br := bytes.NewReader(data)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	consumed := len(data) - br.Len()
	tableRegion := data[consumed:]
	if len(tableRegion) < TablesByteSize {
		return nil, ErrTruncated
	}

	inst := &Instance{
		InputEncoding:  h.inputEncoding,
		OutputEncoding: h.outputEncoding,
		Params:         h.params,
	}
	offset := 0
	for r := range inst.Rounds {
		var round Round
		for i := range round {
			tableSize := entries * entryBytes
			round[i] = TableFromBytes(tableRegion[offset : offset+tableSize])
			offset += tableSize
		}
		inst.Rounds[r] = round
	}
	return inst, nil
}

func wrapShortRead(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeParams(w io.Writer, p InstanceParams) error {
	fields := []uint32{p.Rounds, p.BlockBytes, p.TableInputBits, p.TableOutputBits, p.MaBits, uint32(p.Scheme)}
	for _, f := range fields {
		if err := writeUint32(w, f); err != nil {
			return err
		}
	}
	return nil
}

func readParams(r io.Reader) (InstanceParams, error) {
	var p InstanceParams
	var err error
	if p.Rounds, err = readUint32(r); err != nil {
		return p, err
	}
	if p.BlockBytes, err = readUint32(r); err != nil {
		return p, err
	}
	if p.TableInputBits, err = readUint32(r); err != nil {
		return p, err
	}
	if p.TableOutputBits, err = readUint32(r); err != nil {
		return p, err
	}
	if p.MaBits, err = readUint32(r); err != nil {
		return p, err
	}
	scheme, err := readUint32(r)
	if err != nil {
		return p, err
	}
	p.Scheme = SchemeID(scheme)
	return p, nil
}

func writeAffine256(w io.Writer, aff gf2.Affine256) error {
	encoded := aff.Lin.AppendBinary(nil)
	if _, err := w.Write(encoded); err != nil {
		return err
	}
	_, err := w.Write(aff.Bias[:])
	return err
}

func readAffine256(r io.Reader) (gf2.Affine256, error) {
	buf := make([]byte, gf2.BinarySize256)
	if _, err := io.ReadFull(r, buf); err != nil {
		return gf2.Affine256{}, err
	}
	lin, err := gf2.Matrix256FromBinary(buf)
	if err != nil {
		return gf2.Affine256{}, err
	}
	var bias [32]byte
	if _, err := io.ReadFull(r, bias[:]); err != nil {
		return gf2.Affine256{}, err
	}
	return gf2.Affine256{Lin: lin, Bias: bias}, nil
}
