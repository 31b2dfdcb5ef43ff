package scalar

import "reflect"

type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Uintptr
	Float32
	Float64

	numKinds
)

var kindNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int:     "int",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint:    "uint",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Uintptr: "uintptr",
	Float32: "float32",
	Float64: "float64",
}

var kindTypes = [numKinds]reflect.Type{
	Bool:    reflect.TypeFor[bool](),
	Int:     reflect.TypeFor[int](),
	Int8:    reflect.TypeFor[int8](),
	Int16:   reflect.TypeFor[int16](),
	Int32:   reflect.TypeFor[int32](),
	Int64:   reflect.TypeFor[int64](),
	Uint:    reflect.TypeFor[uint](),
	Uint8:   reflect.TypeFor[uint8](),
	Uint16:  reflect.TypeFor[uint16](),
	Uint32:  reflect.TypeFor[uint32](),
	Uint64:  reflect.TypeFor[uint64](),
	Uintptr: reflect.TypeFor[uintptr](),
	Float32: reflect.TypeFor[float32](),
	Float64: reflect.TypeFor[float64](),
}

var byType = func() map[reflect.Type]Kind {
	m := make(map[reflect.Type]Kind, len(kindTypes))
	for k, t := range kindTypes {
		if t != nil {
			m[t] = Kind(k)
		}
	}
	return m
}()

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type returns the Go type of k, nil for Invalid.
func (k Kind) Type() reflect.Type {
	if k >= numKinds {
		return nil
	}
	return kindTypes[k]
}

func (k Kind) IsInteger() bool {
	return k >= Int && k <= Uintptr
}

func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// KindOf maps a predeclared scalar type to its kind.
func KindOf(t reflect.Type) (Kind, bool) {
	k, ok := byType[t]
	return k, ok
}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Bool; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}
