package box

import (
	"unsafe"

	"github.com/wippyai/anybox/box/internal/layout"
)

// StorageSize is the inline capacity of a Box: the largest of an interface
// value, a pointer, a slice header, a func value, an int64, a complex128
// and a [4]float32 on the host platform.
const StorageSize = max(
	unsafe.Sizeof(any(nil)),
	unsafe.Sizeof(unsafe.Pointer(nil)),
	unsafe.Sizeof([]byte(nil)),
	unsafe.Sizeof((func())(nil)),
	unsafe.Sizeof(int64(0)),
	unsafe.Sizeof(complex128(0)),
	unsafe.Sizeof([4]float32{}),
)

const (
	wordSize = layout.WordSize
	refSlots = 2
)

// storage is the raw inline region of a Box. Payloads are placed so that
// their leading pointer words end on refs[refSlots-1]; scalar words follow in
// bits. An overflow block is referenced from refs[0].
type storage struct {
	refs [refSlots]unsafe.Pointer
	bits [StorageSize / wordSize]uintptr
}

func (s *storage) at(off uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(s), off)
}

func (s *storage) reset() {
	*s = storage{}
}

// bytes copies the region, pointer slots included, for inspection.
func (s *storage) bytes() []byte {
	raw := unsafe.Slice((*byte)(unsafe.Pointer(s)), unsafe.Sizeof(*s))
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// offsetFor returns the placement of an inline payload with prefix leading
// pointer words.
func offsetFor(prefix int) uintptr {
	return uintptr(refSlots-prefix) * wordSize
}

// fitsInline reports whether a payload can live in storage.
func fitsInline(info layout.Info) bool {
	return info.Size <= StorageSize && info.Packed && info.Prefix <= refSlots
}
