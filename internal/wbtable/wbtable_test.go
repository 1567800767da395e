package wbtable

import (
	"bytes"
	"testing"

	"github.com/AbdelStark/whitebox-aes-go/internal/gf2"
)

func TestTableRoundtrip(t *testing.T) {
	table := NewTable()
	var value [32]byte
	value[0] = 0xaa
	value[31] = 0x55
	table.Set(1, 2, value)

	if got := table.Get(1, 2); got != value {
		t.Fatalf("got %x, want %x", got, value)
	}
	if got := table.Get(0, 0); got != ([32]byte{}) {
		t.Fatalf("expected zero entry, got %x", got)
	}
}

func TestRoundInitiallyZero(t *testing.T) {
	round := NewRound()
	if round[0].Get(0, 0) != ([32]byte{}) {
		t.Fatal("expected zero entry")
	}
	if round[31].Get(255, 255) != ([32]byte{}) {
		t.Fatal("expected zero entry")
	}
}

func TestMaskGadgetGet(t *testing.T) {
	var entries [256][32]byte
	entries[7][0] = 0x42
	h := MaskGadgetFromEntries(entries)
	if got := h.Get(7); got[0] != 0x42 {
		t.Fatalf("got %x", got)
	}
	if got := h.Get(0); got != ([32]byte{}) {
		t.Fatal("expected zero entry for unset index")
	}
}

func zeroInstance() *Instance {
	inst := &Instance{
		Params:        DefaultParams(),
		InputEncoding: gf2.IdentityAffine256(),
	}
	for r := range inst.Rounds {
		inst.Rounds[r] = NewRound()
	}
	return inst
}

func TestSaveLoadRoundtripNoOutputEncoding(t *testing.T) {
	inst := zeroInstance()
	inst.Rounds[3][5].Set(9, 200, [32]byte{1, 2, 3, 4})

	var buf bytes.Buffer
	if err := Save(&buf, inst); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !inst.Equal(loaded) {
		t.Fatal("loaded instance does not match original")
	}
	if loaded.OutputEncoding != nil {
		t.Fatal("expected no output encoding")
	}
}

func TestSaveLoadRoundtripWithOutputEncoding(t *testing.T) {
	inst := zeroInstance()
	out := gf2.IdentityAffine256()
	out.Bias[0] = 0x7f
	inst.OutputEncoding = &out

	var buf bytes.Buffer
	if err := Save(&buf, inst); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.OutputEncoding == nil {
		t.Fatal("expected output encoding to be present")
	}
	if !inst.Equal(loaded) {
		t.Fatal("loaded instance does not match original")
	}
}

func TestLoadBytesMatchesLoad(t *testing.T) {
	inst := zeroInstance()
	inst.Rounds[7][12].Set(3, 250, [32]byte{9, 8, 7})

	var buf bytes.Buffer
	if err := Save(&buf, inst); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	viaReader, err := Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	viaBytes, err := LoadBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("load bytes failed: %v", err)
	}
	if !viaReader.Equal(viaBytes) {
		t.Fatal("LoadBytes produced a different instance than Load")
	}
}

func TestLoadBytesRejectsTruncatedTableRegion(t *testing.T) {
	inst := zeroInstance()
	var full bytes.Buffer
	if err := Save(&full, inst); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	truncated := full.Bytes()[:len(full.Bytes())-1]
	if _, err := LoadBytes(truncated); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not an instance file at all, padded further")
	if _, err := Load(buf); err != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestLoadRejectsTruncatedStream(t *testing.T) {
	inst := zeroInstance()
	var full bytes.Buffer
	if err := Save(&full, inst); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	truncated := bytes.NewReader(full.Bytes()[:len(full.Bytes())/2])
	if _, err := Load(truncated); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}
