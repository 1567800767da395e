//go:build !(linux || darwin) || purego

package wbaes

import "os"

// LoadFile reads path into memory and parses an instance from it. The
// platform-independent fallback to the mmap-backed loader: it copies the
// table data once at load time instead of mapping it.
func LoadFile(path string) (inst *Instance, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, wrapErr(KindIO, err)
	}
	defer f.Close()

	loaded, err := Load(f)
	if err != nil {
		return nil, nil, err
	}
	return loaded, func() error { return nil }, nil
}
