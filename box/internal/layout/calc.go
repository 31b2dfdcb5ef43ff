package layout

import (
	"reflect"
	"unsafe"
)

// WordSize is the size of a pointer on the host platform.
const WordSize = unsafe.Sizeof(uintptr(0))

// maxMapped bounds the size of types whose word map is computed.
const maxMapped = 64 * WordSize

type Info struct {
	Size  uintptr
	Align uintptr
	// Prefix is the number of leading pointer words.
	Prefix int
	// Pointers reports whether the type holds any pointer word.
	Pointers bool
	// Packed reports whether every pointer word lies within Prefix.
	Packed bool
}

// Classify computes Info for t. Types larger than 64 words are never packed
// unless they are pointer-free.
func Classify(t reflect.Type) Info {
	info := Info{
		Size:     t.Size(),
		Align:    uintptr(t.Align()),
		Pointers: HasPointers(t),
	}

	if !info.Pointers {
		info.Packed = true
		return info
	}
	if info.Size > maxMapped {
		return info
	}

	words := Words(t)
	for info.Prefix < len(words) && words[info.Prefix] {
		info.Prefix++
	}

	info.Packed = true
	for _, isPtr := range words[info.Prefix:] {
		if isPtr {
			info.Packed = false
			break
		}
	}
	return info
}

// Words returns one entry per word of t, true where the word holds a pointer.
func Words(t reflect.Type) []bool {
	n := (t.Size() + WordSize - 1) / WordSize
	words := make([]bool, n)
	mark(t, 0, words)
	return words
}

func mark(t reflect.Type, off uintptr, words []bool) {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		words[off/WordSize] = true
	case reflect.String, reflect.Slice:
		// data pointer first, then length (and capacity)
		words[off/WordSize] = true
	case reflect.Interface:
		words[off/WordSize] = true
		words[off/WordSize+1] = true
	case reflect.Array:
		elem := t.Elem()
		if !HasPointers(elem) {
			return
		}
		size := elem.Size()
		for i := 0; i < t.Len(); i++ {
			mark(elem, off+uintptr(i)*size, words)
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			mark(f.Type, off+f.Offset, words)
		}
	}
}

// HasPointers reports whether values of t contain pointers.
func HasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func,
		reflect.String, reflect.Slice, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
