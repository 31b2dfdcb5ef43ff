package box

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/wippyai/anybox/errors"
)

// noCopy makes go vet report a Box copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Box holds one payload of any type. The zero value is an empty Box.
//
// A Box must not be copied after first use; use Assign or Clone.
type Box struct {
	noCopy  noCopy
	storage storage
	ops     *dispatcher
}

// New returns a Box holding v.
func New[T any](v T) *Box {
	b := new(Box)
	Set(b, v)
	return b
}

// Set replaces the payload of b with v. When T is *Box or Box the other
// box's payload is deep-copied instead. Assignment is all-or-nothing: if
// writing v panics, b keeps its previous payload.
func Set[T any](b *Box, v T) {
	switch t := reflect.TypeFor[T](); t {
	case boxPtrType:
		b.Assign(*(**Box)(unsafe.Pointer(&v)))
	case boxType:
		b.Assign((*Box)(unsafe.Pointer(&v)))
	default:
		b.install(dispatcherFor(t), unsafe.Pointer(&v))
	}
}

// SetNull stores the null payload.
func SetNull(b *Box) {
	Set(b, Null{})
}

// SetValue stores v with its dynamic type. An invalid Value stores null.
// It panics if v was obtained through unexported struct fields.
func SetValue(b *Box, v reflect.Value) {
	if !v.IsValid() {
		SetNull(b)
		return
	}
	switch v.Type() {
	case boxPtrType:
		b.Assign(v.Interface().(*Box))
		return
	case boxType:
		src := reflect.New(boxType)
		src.Elem().Set(v)
		b.Assign(src.Interface().(*Box))
		return
	}

	tmp := reflect.New(v.Type())
	tmp.Elem().Set(v)
	b.install(dispatcherFor(v.Type()), tmp.UnsafePointer())
}

// Get extracts the payload as T. Exact type matches always succeed; the
// relaxed rules of the payload's category apply otherwise. A mismatch returns
// a cast-failure error carrying both type names. Get panics on an empty box.
func Get[T any](b *Box) (T, error) {
	var out T
	want := reflect.TypeFor[T]()
	d := b.live("Get")
	if !d.read(&b.storage, want, unsafe.Pointer(&out)) {
		return out, b.castError(want)
	}
	return out, nil
}

// MustGet is like Get but panics with the cast-failure error.
func MustGet[T any](b *Box) T {
	v, err := Get[T](b)
	if err != nil {
		panic(err)
	}
	return v
}

// GetValue extracts the payload as a value of type t.
func GetValue(b *Box, t reflect.Type) (reflect.Value, error) {
	d := b.live("GetValue")
	out := reflect.New(t)
	if !d.read(&b.storage, t, out.UnsafePointer()) {
		return reflect.Value{}, b.castError(t)
	}
	return out.Elem(), nil
}

func (b *Box) castError(want reflect.Type) error {
	return errors.CastFailed(b.Type().String(), want.String())
}

func (b *Box) install(d *dispatcher, src unsafe.Pointer) {
	var next storage
	d.write(&next, src)
	b.commit(d, &next)
}

// commit replaces the payload with the one staged in next. Inline payloads
// with a PostCopy hook are settled at their final address; if the hook
// panics the previous payload is put back untouched.
func (b *Box) commit(d *dispatcher, next *storage) {
	if d.settle == nil {
		b.d().destruct(&b.storage)
		b.storage = *next
		b.ops = d
		return
	}

	prev, prevOps := b.storage, b.d()
	b.storage = *next
	b.ops = d

	settled := false
	defer func() {
		if !settled {
			b.storage = prev
			b.ops = prevOps
		}
	}()
	d.settle(&b.storage)
	settled = true

	prevOps.destruct(&prev)
}

func (b *Box) d() *dispatcher {
	if b.ops == nil {
		return emptyDispatcher
	}
	return b.ops
}

func (b *Box) live(op string) *dispatcher {
	d := b.d()
	if d == emptyDispatcher {
		panic(errors.EmptyAccess(op))
	}
	return d
}

// Assign makes b an independent copy of src. Self-assignment keeps the
// payload and reruns its PostCopy hook.
func (b *Box) Assign(src *Box) {
	if src == b {
		d := b.d()
		d.copy(&b.storage, &b.storage)
		return
	}
	if src == nil || src.Empty() {
		b.Clear()
		return
	}

	d := src.d()
	var next storage
	d.copy(&next, &src.storage)
	b.commit(d, &next)
}

// Clone returns an independent copy of b.
func (b *Box) Clone() *Box {
	c := new(Box)
	c.Assign(b)
	return c
}

// Clear destroys the payload and leaves b empty.
func (b *Box) Clear() {
	d := b.d()
	d.destruct(&b.storage)
	d.clear(&b.storage)
	b.ops = emptyDispatcher
}

// Empty reports whether b holds no payload.
func (b *Box) Empty() bool {
	return b.ops == nil || b.ops == emptyDispatcher
}

// Type returns the runtime type of the payload: the dynamic type for
// interface payloads holding a value, the stored type otherwise.
// It panics on an empty box.
func (b *Box) Type() reflect.Type {
	return b.live("Type").dynType(&b.storage)
}

// StaticType returns the type the payload was stored as, nil when empty.
func (b *Box) StaticType() reflect.Type {
	return b.d().typ
}

// Pointer returns the address of the live payload. It stays valid until the
// payload is replaced or cleared. It panics on an empty box.
func (b *Box) Pointer() unsafe.Pointer {
	return b.live("Pointer").pointer(&b.storage)
}

// Category returns the extraction class of the payload.
func (b *Box) Category() Category {
	return b.d().category
}

// Inline reports whether the payload lives in the box's own storage.
func (b *Box) Inline() bool {
	return b.d().regime == regimeInline
}

// Raw returns a copy of the box's inline storage bytes.
func (b *Box) Raw() []byte {
	return b.storage.bytes()
}

// Interface returns a copy of the payload as an interface value, nil for an
// empty box or the null payload.
func (b *Box) Interface() any {
	d := b.d()
	if d == emptyDispatcher || d.category == CategoryNull {
		return nil
	}
	return reflect.NewAt(d.typ, d.pointer(&b.storage)).Elem().Interface()
}

func (b *Box) String() string {
	switch b.Category() {
	case CategoryEmpty:
		return "<empty>"
	case CategoryNull:
		return "null"
	default:
		return fmt.Sprintf("%v", b.Interface())
	}
}
