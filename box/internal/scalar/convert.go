package scalar

import "unsafe"

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type convFunc func(src, dst unsafe.Pointer)

func conv[S, D number](src, dst unsafe.Pointer) {
	*(*D)(dst) = D(*(*S)(src))
}

func fromBool[D number](src, dst unsafe.Pointer) {
	var v D
	if *(*bool)(src) {
		v = 1
	}
	*(*D)(dst) = v
}

func toBool[S number](src, dst unsafe.Pointer) {
	*(*bool)(dst) = *(*S)(src) != 0
}

func copyBool(src, dst unsafe.Pointer) {
	*(*bool)(dst) = *(*bool)(src)
}

func row[S number]() [numKinds]convFunc {
	return [numKinds]convFunc{
		Bool:    toBool[S],
		Int:     conv[S, int],
		Int8:    conv[S, int8],
		Int16:   conv[S, int16],
		Int32:   conv[S, int32],
		Int64:   conv[S, int64],
		Uint:    conv[S, uint],
		Uint8:   conv[S, uint8],
		Uint16:  conv[S, uint16],
		Uint32:  conv[S, uint32],
		Uint64:  conv[S, uint64],
		Uintptr: conv[S, uintptr],
		Float32: conv[S, float32],
		Float64: conv[S, float64],
	}
}

// table[from][to] converts a value of kind from into kind to.
var table = [numKinds][numKinds]convFunc{
	Bool: {
		Bool:    copyBool,
		Int:     fromBool[int],
		Int8:    fromBool[int8],
		Int16:   fromBool[int16],
		Int32:   fromBool[int32],
		Int64:   fromBool[int64],
		Uint:    fromBool[uint],
		Uint8:   fromBool[uint8],
		Uint16:  fromBool[uint16],
		Uint32:  fromBool[uint32],
		Uint64:  fromBool[uint64],
		Uintptr: fromBool[uintptr],
		Float32: fromBool[float32],
		Float64: fromBool[float64],
	},
	Int:     row[int](),
	Int8:    row[int8](),
	Int16:   row[int16](),
	Int32:   row[int32](),
	Int64:   row[int64](),
	Uint:    row[uint](),
	Uint8:   row[uint8](),
	Uint16:  row[uint16](),
	Uint32:  row[uint32](),
	Uint64:  row[uint64](),
	Uintptr: row[uintptr](),
	Float32: row[float32](),
	Float64: row[float64](),
}

// Convert reads a value of kind from at src and writes it as kind to at dst.
// It returns false, writing nothing, when either kind is invalid.
func Convert(from, to Kind, src, dst unsafe.Pointer) bool {
	if from == Invalid || to == Invalid || from >= numKinds || to >= numKinds {
		return false
	}
	table[from][to](src, dst)
	return true
}
