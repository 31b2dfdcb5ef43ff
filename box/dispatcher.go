package box

import (
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/anybox"
	"github.com/wippyai/anybox/box/internal/layout"
	"github.com/wippyai/anybox/box/internal/scalar"
	"github.com/wippyai/anybox/errors"
)

type regime uint8

const (
	regimeNone regime = iota
	regimeInline
	regimeOverflow
)

func (r regime) String() string {
	switch r {
	case regimeInline:
		return "inline"
	case regimeOverflow:
		return "overflow"
	default:
		return "none"
	}
}

// dispatcher is the operation table for one payload type. Records are
// immutable once compiled and shared by every box holding that type.
type dispatcher struct {
	typ      reflect.Type
	name     string
	category Category
	scalar   scalar.Kind
	regime   regime
	offset   uintptr
	scan     bool
	postCopy bool
	destroy  bool

	write    func(s *storage, src unsafe.Pointer)
	read     func(s *storage, want reflect.Type, dst unsafe.Pointer) bool
	dynType  func(s *storage) reflect.Type
	pointer  func(s *storage) unsafe.Pointer
	clear    func(s *storage)
	destruct func(s *storage)
	copy     func(dst, src *storage)

	// settle runs PostCopy on an inline payload at its final address. Nil
	// unless the payload is inline and has the hook; write and copy into
	// another storage leave it to the caller.
	settle func(s *storage)
}

var emptyDispatcher = &dispatcher{
	name:     "empty",
	category: CategoryEmpty,
	write: func(*storage, unsafe.Pointer) {
		panic(errors.Unsupported(errors.PhaseAssign, "write through the empty dispatcher"))
	},
	read: func(*storage, reflect.Type, unsafe.Pointer) bool {
		panic(errors.EmptyAccess("Get"))
	},
	dynType: func(*storage) reflect.Type {
		panic(errors.EmptyAccess("Type"))
	},
	pointer: func(*storage) unsafe.Pointer {
		panic(errors.EmptyAccess("Pointer"))
	},
	clear:    func(s *storage) { s.reset() },
	destruct: func(*storage) {},
	copy:     func(dst, src *storage) {},
}

var dispatchers sync.Map // reflect.Type -> *dispatcher

// dispatcherFor returns the cached dispatcher for t, compiling it on first use.
func dispatcherFor(t reflect.Type) *dispatcher {
	if cached, ok := dispatchers.Load(t); ok {
		return cached.(*dispatcher)
	}

	d, loaded := dispatchers.LoadOrStore(t, compile(t))
	if !loaded {
		dd := d.(*dispatcher)
		Logger().Debug("compiled dispatcher",
			zap.String("type", dd.name),
			zap.Stringer("category", dd.category),
			zap.Stringer("regime", dd.regime),
			zap.Uintptr("size", t.Size()))
	}
	return d.(*dispatcher)
}

func compile(t reflect.Type) *dispatcher {
	info := layout.Classify(t)
	pt := reflect.PointerTo(t)

	d := &dispatcher{
		typ:      t,
		name:     t.String(),
		category: categorize(t),
		scan:     info.Pointers,
		postCopy: pt.Implements(copierType),
		destroy:  pt.Implements(destructorType),
	}
	d.scalar, _ = scalar.KindOf(t)

	if fitsInline(info) {
		d.regime = regimeInline
		d.offset = offsetFor(info.Prefix)
		d.bindInline()
	} else {
		d.regime = regimeOverflow
		d.bindOverflow()
	}

	d.clear = func(s *storage) { s.reset() }
	d.dynType = d.typeOf
	d.read = d.readerFor()
	return d
}

func (d *dispatcher) bindInline() {
	t := d.typ

	d.pointer = func(s *storage) unsafe.Pointer {
		return s.at(d.offset)
	}

	if d.postCopy {
		d.settle = func(s *storage) {
			runPostCopy(t, s.at(d.offset))
		}
	}

	d.write = func(s *storage, src unsafe.Pointer) {
		s.reset()
		typedCopy(t, s.at(d.offset), src)
	}

	d.destruct = func(s *storage) {
		if d.destroy {
			runDestruct(t, s.at(d.offset))
		}
	}

	d.copy = func(dst, src *storage) {
		if dst == src {
			if d.settle != nil {
				d.settle(dst)
			}
			return
		}
		dst.reset()
		typedCopy(t, dst.at(d.offset), src.at(d.offset))
	}
}

func (d *dispatcher) bindOverflow() {
	t := d.typ

	d.pointer = func(s *storage) unsafe.Pointer {
		return s.refs[0]
	}

	install := func(s *storage, src unsafe.Pointer) {
		block := reflect.New(t).UnsafePointer()
		typedCopy(t, block, src)
		if d.postCopy {
			runPostCopy(t, block)
		}

		tp := tracker.Load()
		if tp != nil {
			(*tp).Track(d.block(block))
		}

		s.reset()
		s.refs[0] = block
		s.refs[1] = unsafe.Pointer(tp)
	}

	d.write = install

	d.destruct = func(s *storage) {
		block := s.refs[0]
		if block == nil {
			return
		}
		if d.destroy {
			runDestruct(t, block)
		}
		if tp := (*anybox.Tracker)(s.refs[1]); tp != nil {
			(*tp).Untrack(d.block(block))
		}
		typedZero(t, block)
		s.refs[0] = nil
		s.refs[1] = nil
	}

	d.copy = func(dst, src *storage) {
		if dst == src {
			if d.postCopy && src.refs[0] != nil {
				runPostCopy(t, src.refs[0])
			}
			return
		}
		install(dst, src.refs[0])
	}
}

func (d *dispatcher) block(p unsafe.Pointer) anybox.Block {
	return anybox.Block{
		Type: d.typ,
		Addr: p,
		Size: d.typ.Size(),
		Scan: d.scan,
	}
}

// typeOf reports the dynamic type for object payloads holding a value.
func (d *dispatcher) typeOf(s *storage) reflect.Type {
	if d.category != CategoryObject {
		return d.typ
	}
	v := reflect.NewAt(d.typ, d.pointer(s)).Elem()
	if v.IsNil() {
		return d.typ
	}
	return v.Elem().Type()
}

func (d *dispatcher) readerFor() func(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
	var relaxed func(s *storage, want reflect.Type, dst unsafe.Pointer) bool

	switch d.category {
	case CategoryNull:
		relaxed = d.readNull
	case CategoryObject:
		relaxed = d.readObject
	case CategoryScalar:
		relaxed = d.readScalar
	case CategoryArray:
		relaxed = d.readArray
	case CategoryPointer:
		relaxed = d.readPointer
	}

	return func(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
		if want == d.typ {
			typedCopy(d.typ, dst, d.pointer(s))
			return true
		}
		if relaxed == nil {
			return false
		}
		return relaxed(s, want, dst)
	}
}

// readNull yields the zero value of any nilable type.
func (d *dispatcher) readNull(_ *storage, want reflect.Type, dst unsafe.Pointer) bool {
	if !nilable(want) {
		return false
	}
	typedZero(want, dst)
	return true
}

// readObject matches any, any interface the dynamic value implements, and
// the dynamic type itself.
func (d *dispatcher) readObject(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
	v := reflect.NewAt(d.typ, d.pointer(s)).Elem()
	out := reflect.NewAt(want, dst).Elem()

	if v.IsNil() {
		if want.Kind() != reflect.Interface {
			return false
		}
		out.SetZero()
		return true
	}

	dyn := v.Elem()
	switch {
	case want == anyType:
		out.Set(dyn)
	case want.Kind() == reflect.Interface && dyn.Type().Implements(want):
		out.Set(dyn)
	case dyn.Type() == want:
		out.Set(dyn)
	default:
		return false
	}
	return true
}

func (d *dispatcher) readScalar(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
	to, ok := scalar.KindOf(want)
	if !ok {
		return false
	}
	return scalar.Convert(d.scalar, to, d.pointer(s), dst)
}

func (d *dispatcher) readArray(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
	if want != rawSliceType {
		return false
	}
	*(*RawSlice)(dst) = d.rawSlice(s)
	return true
}

func (d *dispatcher) rawSlice(s *storage) RawSlice {
	p := d.pointer(s)
	switch d.typ.Kind() {
	case reflect.Slice:
		v := reflect.NewAt(d.typ, p).Elem()
		return RawSlice{
			Data: v.UnsafePointer(),
			Len:  v.Len(),
			Cap:  v.Cap(),
			Elem: d.typ.Elem(),
		}
	case reflect.Array:
		return RawSlice{
			Data: p,
			Len:  d.typ.Len(),
			Cap:  d.typ.Len(),
			Elem: d.typ.Elem(),
		}
	default:
		str := reflect.NewAt(d.typ, p).Elem().String()
		return RawSlice{
			Data: unsafe.Pointer(unsafe.StringData(str)),
			Len:  len(str),
			Cap:  len(str),
			Elem: reflect.TypeFor[byte](),
		}
	}
}

func (d *dispatcher) readPointer(s *storage, want reflect.Type, dst unsafe.Pointer) bool {
	if want != unsafePointerType {
		return false
	}
	*(*unsafe.Pointer)(dst) = *(*unsafe.Pointer)(d.pointer(s))
	return true
}
