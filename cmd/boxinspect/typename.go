package main

import (
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/errors"
	"github.com/wippyai/anybox/meta"
)

var namedTypes = map[string]reflect.Type{
	"bool":           reflect.TypeFor[bool](),
	"int":            reflect.TypeFor[int](),
	"int8":           reflect.TypeFor[int8](),
	"int16":          reflect.TypeFor[int16](),
	"int32":          reflect.TypeFor[int32](),
	"int64":          reflect.TypeFor[int64](),
	"uint":           reflect.TypeFor[uint](),
	"uint8":          reflect.TypeFor[uint8](),
	"uint16":         reflect.TypeFor[uint16](),
	"uint32":         reflect.TypeFor[uint32](),
	"uint64":         reflect.TypeFor[uint64](),
	"uintptr":        reflect.TypeFor[uintptr](),
	"float32":        reflect.TypeFor[float32](),
	"float64":        reflect.TypeFor[float64](),
	"complex64":      reflect.TypeFor[complex64](),
	"complex128":     reflect.TypeFor[complex128](),
	"byte":           reflect.TypeFor[byte](),
	"rune":           reflect.TypeFor[rune](),
	"string":         reflect.TypeFor[string](),
	"any":            reflect.TypeFor[any](),
	"error":          reflect.TypeFor[error](),
	"fmt.Stringer":   reflect.TypeFor[interface{ String() string }](),
	"null":           reflect.TypeFor[box.Null](),
	"raw":            reflect.TypeFor[box.RawSlice](),
	"unsafe.Pointer": reflect.TypeFor[unsafe.Pointer](),
}

// parseType resolves a Go-like type expression: predeclared names, the
// registered metadata names, and []T, *T and [N]T built from them.
func parseType(expr string) (reflect.Type, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, errors.InvalidInput(errors.PhaseConfig, "empty type name")
	case strings.HasPrefix(expr, "[]"):
		elem, err := parseType(expr[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(expr, "*"):
		elem, err := parseType(expr[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(expr, "["):
		end := strings.IndexByte(expr, ']')
		if end < 0 {
			return nil, errors.InvalidInput(errors.PhaseConfig, "unterminated array length in "+expr)
		}
		n, err := strconv.Atoi(expr[1:end])
		if err != nil || n < 0 {
			return nil, errors.InvalidInput(errors.PhaseConfig, "bad array length in "+expr)
		}
		elem, err := parseType(expr[end+1:])
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(n, elem), nil
	}

	if t, ok := namedTypes[expr]; ok {
		return t, nil
	}
	t, err := meta.Lookup(expr)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Requested(expr).
			Detail("unknown type").
			Cause(err).
			Build()
	}
	return t.Go, nil
}
