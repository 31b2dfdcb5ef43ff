package box

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/anybox/box/internal/layout"
	"github.com/wippyai/anybox/errors"
)

// RawSlice is the untyped view of an array payload: slices, arrays and
// strings all read as a RawSlice. For arrays Data points into the box and is
// valid until the payload is replaced or cleared. Memory of a string payload
// must not be written.
type RawSlice struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
	Elem reflect.Type
}

// Bytes returns the size of the viewed elements in bytes.
func (s RawSlice) Bytes() uintptr {
	if s.Elem == nil {
		return 0
	}
	return uintptr(s.Len) * s.Elem.Size()
}

// SliceAs reinterprets s as a []E. The identical element type always works.
// Other element types must be pointer-free on both sides, aligned, and evenly
// divide the viewed bytes.
func SliceAs[E any](s RawSlice) ([]E, error) {
	et := reflect.TypeFor[E]()
	if s.Data == nil {
		return nil, nil
	}
	if s.Elem == et {
		return unsafe.Slice((*E)(s.Data), s.Cap)[:s.Len], nil
	}

	fail := func(detail string) ([]E, error) {
		return nil, errors.New(errors.PhaseCast, errors.KindTypeMismatch).
			Stored("[]"+s.Elem.String()).
			Requested("[]"+et.String()).
			Detail("%s", detail).
			Build()
	}

	if layout.HasPointers(et) || layout.HasPointers(s.Elem) {
		return fail("element types holding pointers only reinterpret as themselves")
	}
	size := et.Size()
	if size == 0 {
		return fail("zero-size element type")
	}
	if uintptr(s.Data)%uintptr(et.Align()) != 0 {
		return fail("misaligned data")
	}
	if s.Bytes()%size != 0 {
		return fail("length is not a multiple of the element size")
	}

	n := int(s.Bytes() / size)
	c := int(uintptr(s.Cap) * s.Elem.Size() / size)
	return unsafe.Slice((*E)(s.Data), c)[:n], nil
}
