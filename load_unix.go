//go:build (linux || darwin) && !purego

package wbaes

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/AbdelStark/whitebox-aes-go/internal/wbtable"
)

// LoadFile maps path into memory and parses an instance directly over the
// mapping, avoiding a ~20 MiB copy of the table data. The returned instance
// is only valid until the returned closer is closed; closing unmaps the
// file.
func LoadFile(path string) (inst *Instance, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, wrapErr(KindIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, wrapErr(KindIO, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, nil, errorf(KindMalformed, "instance file is empty")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, wrapErr(KindIO, err)
	}

	loaded, err := wbtable.LoadBytes(data)
	if err != nil {
		_ = unix.Munmap(data)
		switch err {
		case wbtable.ErrBadMagic, wbtable.ErrUnsupportedVersion, wbtable.ErrTruncated, wbtable.ErrOutputEncodingMissing:
			return nil, nil, wrapErr(KindMalformed, err)
		default:
			return nil, nil, wrapErr(KindIO, err)
		}
	}

	return loaded, func() error { return unix.Munmap(data) }, nil
}
