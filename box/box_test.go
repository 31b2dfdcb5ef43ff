package box

import (
	stderrors "errors"
	"reflect"
	"strings"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/anybox/errors"
)

type point struct {
	X, Y int32
}

type rect struct {
	Min, Max point
}

type big struct {
	Data [64]byte
	Name string
}

type color uint8

type shape interface {
	Area() float64
}

type square struct {
	Side float64
}

func (s *square) Area() float64 { return s.Side * s.Side }

func roundTrip[T comparable](t *testing.T, v T) {
	t.Helper()
	var b Box
	Set(&b, v)
	got, err := Get[T](&b)
	if err != nil {
		t.Fatalf("Get[%T]: %v", v, err)
	}
	if got != v {
		t.Errorf("round trip %T: got %v, want %v", v, got, v)
	}
	if b.Type() != reflect.TypeFor[T]() && reflect.TypeFor[T]().Kind() != reflect.Interface {
		t.Errorf("Type() = %v, want %v", b.Type(), reflect.TypeFor[T]())
	}
}

func TestRoundTrip(t *testing.T) {
	x := 42
	sq := &square{Side: 3}

	t.Run("scalars", func(t *testing.T) {
		roundTrip(t, true)
		roundTrip(t, int(-7))
		roundTrip(t, int8(-8))
		roundTrip(t, int16(-16))
		roundTrip(t, int32(-32))
		roundTrip(t, int64(-64))
		roundTrip(t, uint(7))
		roundTrip(t, uint8(8))
		roundTrip(t, uint16(16))
		roundTrip(t, uint32(32))
		roundTrip(t, uint64(1<<63))
		roundTrip(t, uintptr(0xdead))
		roundTrip(t, float32(1.25))
		roundTrip(t, 3.5)
	})
	t.Run("complex", func(t *testing.T) { roundTrip(t, complex(1, -2)) })
	t.Run("enum", func(t *testing.T) { roundTrip(t, color(3)) })
	t.Run("aggregate", func(t *testing.T) { roundTrip(t, rect{Min: point{1, 2}, Max: point{3, 4}}) })
	t.Run("overflow_aggregate", func(t *testing.T) { roundTrip(t, big{Data: [64]byte{1, 2, 3}, Name: "big"}) })
	t.Run("string", func(t *testing.T) { roundTrip(t, "hello") })
	t.Run("pointer", func(t *testing.T) { roundTrip(t, &x) })
	t.Run("unsafe_pointer", func(t *testing.T) { roundTrip(t, unsafe.Pointer(&x)) })
	t.Run("object", func(t *testing.T) { roundTrip[shape](t, sq) })
	t.Run("array", func(t *testing.T) { roundTrip(t, [4]float32{1, 2, 3, 4}) })
	t.Run("null", func(t *testing.T) { roundTrip(t, Null{}) })

	t.Run("slice", func(t *testing.T) {
		want := []string{"a", "b", "c"}
		got := MustGet[[]string](New(want))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("slice mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("map", func(t *testing.T) {
		want := map[string]int{"a": 1}
		got := MustGet[map[string]int](New(want))
		got["b"] = 2
		if want["b"] != 2 {
			t.Error("maps are references; the extracted map should alias the stored one")
		}
	})

	t.Run("channel", func(t *testing.T) {
		ch := make(chan int, 1)
		got := MustGet[chan int](New(ch))
		got <- 5
		if v := <-ch; v != 5 {
			t.Errorf("got %d, want 5", v)
		}
	})

	t.Run("func", func(t *testing.T) {
		got := MustGet[func(int) int](New(func(n int) int { return n * 2 }))
		if got(21) != 42 {
			t.Error("function payload not preserved")
		}
	})

	t.Run("closure", func(t *testing.T) {
		count := 0
		inc := func() int { count++; return count }
		b := New(inc)
		f := MustGet[func() int](b)
		f()
		f()
		if count != 2 {
			t.Errorf("closure state count = %d, want 2", count)
		}
	})
}

func TestScalarConversion(t *testing.T) {
	var b Box

	Set(&b, int32(123))
	if got := MustGet[float64](&b); got != 123.0 {
		t.Errorf("int32(123) as float64 = %v, want 123.0", got)
	}
	if got := MustGet[uint8](&b); got != 123 {
		t.Errorf("int32(123) as uint8 = %v, want 123", got)
	}

	Set(&b, 4.56)
	if got := MustGet[int32](&b); got != 4 {
		t.Errorf("4.56 as int32 = %v, want 4", got)
	}

	Set(&b, int32(300))
	if got := MustGet[int8](&b); got != 44 {
		t.Errorf("int32(300) as int8 = %v, want 44 (wrapping)", got)
	}

	Set(&b, true)
	if got := MustGet[int](&b); got != 1 {
		t.Errorf("true as int = %v, want 1", got)
	}

	Set(&b, uint16(0))
	if MustGet[bool](&b) {
		t.Error("uint16(0) as bool should be false")
	}

	if b.Type() != reflect.TypeFor[uint16]() {
		t.Errorf("conversion must not change the stored type, got %v", b.Type())
	}
}

func TestScalarConversion_NotForNamedOrNonScalar(t *testing.T) {
	var b Box

	Set(&b, color(2))
	if _, err := Get[uint8](&b); err == nil {
		t.Error("named types must only match by identity")
	}

	Set(&b, uint8(2))
	if _, err := Get[color](&b); err == nil {
		t.Error("scalars must not convert into named types")
	}
	if _, err := Get[string](&b); err == nil {
		t.Error("scalars must not convert into strings")
	}
}

func TestComplexIsAggregate(t *testing.T) {
	var b Box
	Set(&b, complex64(complex(1, 2)))
	if b.Category() != CategoryAggregate {
		t.Errorf("complex64 category = %v, want aggregate", b.Category())
	}
	if _, err := Get[complex128](&b); err == nil {
		t.Error("complex64 must not convert into complex128")
	}
	if _, err := Get[float32](&b); err == nil {
		t.Error("complex64 must not convert into float32")
	}

	Set(&b, 1.5)
	if _, err := Get[complex128](&b); err == nil {
		t.Error("float64 must not convert into complex128")
	}
}

func TestCastMismatch(t *testing.T) {
	var b Box
	Set(&b, point{1, 2})

	got, err := Get[rect](&b)
	if err == nil {
		t.Fatal("expected cast failure")
	}
	if got != (rect{}) {
		t.Errorf("failed cast returned %v, want zero value", got)
	}
	if !stderrors.Is(err, errors.ErrCastFailed) {
		t.Errorf("error %v should match ErrCastFailed", err)
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Stored != "box.point" || e.Requested != "box.rect" {
		t.Errorf("Stored=%q Requested=%q", e.Stored, e.Requested)
	}

	if _, err := Get[unsafe.Pointer](&b); err == nil {
		t.Error("aggregates must not match the untyped pointer identity")
	}
	if _, err := Get[RawSlice](&b); err == nil {
		t.Error("aggregates must not match the untyped slice identity")
	}
}

func TestMustGet_Panics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !stderrors.Is(err, errors.ErrCastFailed) {
			t.Errorf("recovered %v, want cast failure", r)
		}
	}()
	MustGet[string](New(1))
}

func TestCopyIndependence(t *testing.T) {
	var a Box
	Set(&a, big{Data: [64]byte{1}, Name: "original"})
	if a.Inline() {
		t.Fatal("big should be an overflow payload")
	}

	b := a.Clone()
	if b.Pointer() == a.Pointer() {
		t.Fatal("clone shares the overflow block")
	}

	p := (*big)(a.Pointer())
	p.Data[0] = 9
	p.Name = "mutated"

	got := MustGet[big](b)
	if got.Data[0] != 1 || got.Name != "original" {
		t.Errorf("clone observed mutation: %+v", got)
	}
	if MustGet[big](&a).Name != "mutated" {
		t.Error("mutation through Pointer not visible in source")
	}

	var c Box
	Set(&c, 5)
	c.Assign(&a)
	(*big)(a.Pointer()).Name = "again"
	if MustGet[big](&c).Name != "mutated" {
		t.Error("Assign shares the overflow block")
	}
}

func TestCopyIndependence_Inline(t *testing.T) {
	var a Box
	Set(&a, rect{Max: point{5, 5}})
	b := a.Clone()

	(*rect)(a.Pointer()).Max.X = 100
	if MustGet[rect](b).Max.X != 5 {
		t.Error("inline clone observed mutation")
	}
}

func TestSelfAssignment(t *testing.T) {
	payloads := map[string]func(*Box){
		"inline":   func(b *Box) { Set(b, point{7, 8}) },
		"overflow": func(b *Box) { Set(b, big{Name: "self"}) },
		"empty":    func(b *Box) {},
	}

	for name, fill := range payloads {
		t.Run(name, func(t *testing.T) {
			var b Box
			fill(&b)
			var before []byte
			if !b.Empty() {
				before = b.Raw()
			}

			b.Assign(&b)
			Set(&b, &b)

			if b.Empty() != (before == nil) {
				t.Fatalf("emptiness changed")
			}
			if before != nil {
				if diff := cmp.Diff(before, b.Raw()); diff != "" {
					t.Errorf("storage changed (-before +after):\n%s", diff)
				}
			}
		})
	}
}

func TestEmptyLifecycle(t *testing.T) {
	var b Box
	if !b.Empty() {
		t.Fatal("zero Box should be empty")
	}
	if b.Category() != CategoryEmpty {
		t.Errorf("Category = %v, want empty", b.Category())
	}
	if b.String() != "<empty>" {
		t.Errorf("String = %q", b.String())
	}

	Set(&b, big{Name: "x"})
	if b.Empty() {
		t.Fatal("box should hold a payload")
	}
	b.Clear()
	if !b.Empty() {
		t.Fatal("Clear should empty the box")
	}
	b.Clear()

	Set(&b, int16(9))
	var fresh Box
	Set(&fresh, int16(9))
	if diff := cmp.Diff(fresh.Raw(), b.Raw()); diff != "" {
		t.Errorf("reuse after Clear differs from a fresh box:\n%s", diff)
	}
	if MustGet[int16](&b) != 9 {
		t.Error("value after reuse")
	}
}

func TestEmptyAccessPanics(t *testing.T) {
	ops := map[string]func(b *Box){
		"Type":     func(b *Box) { b.Type() },
		"Pointer":  func(b *Box) { b.Pointer() },
		"Get":      func(b *Box) { _, _ = Get[int](b) },
		"GetValue": func(b *Box) { _, _ = GetValue(b, reflect.TypeFor[int]()) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !stderrors.Is(err, errors.ErrEmptyAccess) {
					t.Errorf("recovered %v, want empty access", r)
				}
				if ok && !strings.Contains(err.Error(), name) {
					t.Errorf("error %q should name %s", err, name)
				}
			}()
			var b Box
			op(&b)
		})
	}
}

func TestOverflowBoundary(t *testing.T) {
	var atLimit, overLimit Box

	var small [StorageSize]byte
	var large [StorageSize + 1]byte
	for i := range small {
		small[i] = byte(i + 1)
	}
	for i := range large {
		large[i] = byte(i + 1)
	}

	Set(&atLimit, small)
	Set(&overLimit, large)

	if !atLimit.Inline() {
		t.Errorf("[%d]byte should be stored inline", StorageSize)
	}
	if overLimit.Inline() {
		t.Errorf("[%d]byte should overflow", StorageSize+1)
	}

	if MustGet[[StorageSize]byte](&atLimit) != small {
		t.Error("inline round trip")
	}
	if MustGet[[StorageSize + 1]byte](&overLimit) != large {
		t.Error("overflow round trip")
	}
}

func TestObjectRelaxation(t *testing.T) {
	sq := &square{Side: 2}
	var b Box
	Set[shape](&b, sq)

	if b.Category() != CategoryObject {
		t.Fatalf("Category = %v", b.Category())
	}
	if b.Type() != reflect.TypeFor[*square]() {
		t.Errorf("Type() = %v, want dynamic type *square", b.Type())
	}
	if b.StaticType() != reflect.TypeFor[shape]() {
		t.Errorf("StaticType() = %v", b.StaticType())
	}

	obj, err := Get[any](&b)
	if err != nil {
		t.Fatal(err)
	}
	if obj.(*square) != sq {
		t.Error("generic object extraction must yield the original reference")
	}

	concrete, err := Get[*square](&b)
	if err != nil || concrete != sq {
		t.Errorf("downcast = %v, %v", concrete, err)
	}

	type areaer interface{ Area() float64 }
	if a, err := Get[areaer](&b); err != nil || a.Area() != 4 {
		t.Errorf("interface conversion = %v, %v", a, err)
	}

	if _, err := Get[*point](&b); err == nil {
		t.Error("unrelated concrete type must fail")
	}
	if _, err := Get[error](&b); err == nil {
		t.Error("unimplemented interface must fail")
	}
}

func TestObjectRelaxation_NilInterface(t *testing.T) {
	var b Box
	Set[error](&b, nil)

	if b.Type() != reflect.TypeFor[error]() {
		t.Errorf("nil interface Type() = %v, want error", b.Type())
	}
	obj, err := Get[any](&b)
	if err != nil || obj != nil {
		t.Errorf("Get[any] = %v, %v", obj, err)
	}
	if _, err := Get[*square](&b); err == nil {
		t.Error("nil object must not downcast to a concrete type")
	}
}

func TestArrayRelaxation(t *testing.T) {
	want := []int32{10, 20, 30}
	var b Box
	Set(&b, want)

	raw, err := Get[RawSlice](&b)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Len != 3 || raw.Elem != reflect.TypeFor[int32]() {
		t.Errorf("raw = %+v", raw)
	}
	got, err := SliceAs[int32](raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reinterpreted slice (-want +got):\n%s", diff)
	}

	t.Run("fixed_array", func(t *testing.T) {
		var a Box
		Set(&a, [3]int16{1, 2, 3})
		raw := MustGet[RawSlice](&a)
		if raw.Data != a.Pointer() {
			t.Error("array view should point at the payload")
		}
		got, _ := SliceAs[int16](raw)
		if diff := cmp.Diff([]int16{1, 2, 3}, got); diff != "" {
			t.Errorf("array view (-want +got):\n%s", diff)
		}
	})

	t.Run("string", func(t *testing.T) {
		raw := MustGet[RawSlice](New("héllo"))
		got, _ := SliceAs[byte](raw)
		if string(got) != "héllo" {
			t.Errorf("string view = %q", got)
		}
	})
}

func TestPointerRelaxation(t *testing.T) {
	x := 11
	var b Box
	Set(&b, &x)

	p, err := Get[unsafe.Pointer](&b)
	if err != nil {
		t.Fatal(err)
	}
	if p != unsafe.Pointer(&x) {
		t.Error("untyped pointer differs from original")
	}
	if *(*int)(p) != 11 {
		t.Error("reinterpreted pointer reads wrong value")
	}
	if _, err := Get[*int64](&b); err == nil {
		t.Error("different pointer types must not match")
	}
}

func TestNull(t *testing.T) {
	var b Box
	SetNull(&b)

	if b.Category() != CategoryNull || b.String() != "null" || b.Interface() != nil {
		t.Errorf("null payload: %v %q %v", b.Category(), b.String(), b.Interface())
	}
	if p, err := Get[*point](&b); err != nil || p != nil {
		t.Errorf("Get[*point] = %v, %v", p, err)
	}
	if s, err := Get[[]int](&b); err != nil || s != nil {
		t.Errorf("Get[[]int] = %v, %v", s, err)
	}
	if _, err := Get[int](&b); err == nil {
		t.Error("null must not read as a non-nilable type")
	}

	SetValue(&b, reflect.Value{})
	if b.Category() != CategoryNull {
		t.Error("invalid reflect.Value should store null")
	}
}

func TestCallableExactOnly(t *testing.T) {
	var b Box
	Set(&b, func() {})
	if _, err := Get[func() int](&b); err == nil {
		t.Error("func types must match exactly")
	}
	if _, err := Get[unsafe.Pointer](&b); err == nil {
		t.Error("func values are not raw pointers")
	}
	if b.Category() != CategoryCallable {
		t.Errorf("Category = %v", b.Category())
	}
}

func TestSetBox(t *testing.T) {
	src := New(big{Name: "src"})
	var dst Box
	Set(&dst, src)

	if dst.Type() != reflect.TypeFor[big]() {
		t.Fatalf("Set(*Box) should copy the payload, got %v", dst.Type())
	}
	if dst.Pointer() == src.Pointer() {
		t.Error("Set(*Box) shares the overflow block")
	}

	var empty Box
	Set(&dst, &empty)
	if !dst.Empty() {
		t.Error("copying an empty box should empty the destination")
	}
}

func TestSetValue(t *testing.T) {
	var b Box
	SetValue(&b, reflect.ValueOf(point{3, 4}))
	if MustGet[point](&b) != (point{3, 4}) {
		t.Error("SetValue round trip")
	}

	v, err := GetValue(&b, reflect.TypeFor[point]())
	if err != nil || v.Interface().(point) != (point{3, 4}) {
		t.Errorf("GetValue = %v, %v", v, err)
	}
	if _, err := GetValue(&b, reflect.TypeFor[rect]()); err == nil {
		t.Error("GetValue mismatch should fail")
	}

	src := New(7)
	SetValue(&b, reflect.ValueOf(src))
	if MustGet[int](&b) != 7 {
		t.Error("SetValue(*Box) should copy the payload")
	}
}

func TestString(t *testing.T) {
	if got := New(point{1, 2}).String(); got != "{1 2}" {
		t.Errorf("String() = %q", got)
	}
	if got := New[shape](&square{Side: 1}).Interface(); got == nil {
		t.Error("Interface() of an object payload should be its dynamic value")
	}
}
