package box

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/anybox/box/internal/scalar"
)

// Category is the extraction class of a payload type.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategoryNull
	CategoryObject
	CategoryAggregate
	CategoryEnum
	CategoryScalar
	CategoryArray
	CategoryPointer
	CategoryCallable
	CategoryReference
)

var categoryNames = [...]string{
	CategoryEmpty:     "empty",
	CategoryNull:      "null",
	CategoryObject:    "object",
	CategoryAggregate: "aggregate",
	CategoryEnum:      "enum",
	CategoryScalar:    "scalar",
	CategoryArray:     "array",
	CategoryPointer:   "pointer",
	CategoryCallable:  "callable",
	CategoryReference: "reference",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Null is the payload stored by SetNull.
type Null struct{}

var (
	nullType          = reflect.TypeFor[Null]()
	anyType           = reflect.TypeFor[any]()
	rawSliceType      = reflect.TypeFor[RawSlice]()
	unsafePointerType = reflect.TypeFor[unsafe.Pointer]()
	boxType           = reflect.TypeFor[Box]()
	boxPtrType        = reflect.TypeFor[*Box]()
)

func categorize(t reflect.Type) Category {
	if t == nullType {
		return CategoryNull
	}
	if _, ok := scalar.KindOf(t); ok {
		return CategoryScalar
	}

	switch t.Kind() {
	case reflect.Interface:
		return CategoryObject
	case reflect.Struct, reflect.Complex64, reflect.Complex128:
		return CategoryAggregate
	case reflect.Slice, reflect.Array, reflect.String:
		return CategoryArray
	case reflect.Pointer, reflect.UnsafePointer:
		return CategoryPointer
	case reflect.Func:
		return CategoryCallable
	case reflect.Map, reflect.Chan:
		return CategoryReference
	default:
		// named bool and numeric types
		return CategoryEnum
	}
}

// nilable reports whether the zero value of t is nil.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.UnsafePointer,
		reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}
