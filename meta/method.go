package meta

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/errors"
)

var errorType = reflect.TypeFor[error]()

// Arg is a call argument extracted from a box: its type and the address of
// the value.
type Arg struct {
	Type reflect.Type
	Ptr  unsafe.Pointer
}

// ArgOf returns the argument view of b. The view is valid while b keeps its
// payload. It panics on an empty box.
func ArgOf(b *box.Box) Arg {
	return Arg{Type: b.StaticType(), Ptr: b.Pointer()}
}

// Method is an exported method of a registered type.
type Method struct {
	Name string
	Key  string
	In   []reflect.Type
	Out  []reflect.Type

	owner    *Type
	fn       reflect.Value
	variadic bool
	errOut   bool
}

func newMethod(t *Type, rm reflect.Method) *Method {
	mt := rm.Type
	m := &Method{
		Name:     rm.Name,
		Key:      kebab(rm.Name),
		owner:    t,
		fn:       rm.Func,
		variadic: mt.IsVariadic(),
	}
	for i := 1; i < mt.NumIn(); i++ {
		m.In = append(m.In, mt.In(i))
	}
	for i := 0; i < mt.NumOut(); i++ {
		m.Out = append(m.Out, mt.Out(i))
	}
	if n := len(m.Out); n > 0 && m.Out[n-1] == errorType {
		m.errOut = true
	}
	return m
}

// Signature renders the method as Go source.
func (m *Method) Signature() string {
	in := make([]string, len(m.In))
	for i, t := range m.In {
		in[i] = t.String()
	}
	if m.variadic {
		last := len(in) - 1
		in[last] = "..." + m.In[last].Elem().String()
	}

	sig := m.Name + "(" + strings.Join(in, ", ") + ")"
	switch len(m.Out) {
	case 0:
		return sig
	case 1:
		return sig + " " + m.Out[0].String()
	}
	out := make([]string, len(m.Out))
	for i, t := range m.Out {
		out[i] = t.String()
	}
	return sig + " (" + strings.Join(out, ", ") + ")"
}

// Invoke calls the method on obj. Arguments must match the parameter types
// exactly, or be assignable or numerically convertible to them. The result
// box is empty for no results, holds the single result, or holds an []any
// for several. A trailing error result is returned as the error.
func (m *Method) Invoke(obj *box.Box, args []Arg) (res *box.Box, err error) {
	path := []string{m.owner.Name, m.Name}

	recv, err := m.owner.receiver(obj, path...)
	if err != nil {
		return nil, err
	}
	if len(args) != len(m.In) {
		return nil, errors.Arity(path, len(m.In), len(args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, recv.Addr())
	for i, a := range args {
		v, err := coerce(a, m.In[i])
		if err != nil {
			return nil, errors.TypeMismatch(errors.PhaseInvoke,
				append(path, fmt.Sprintf("arg%d", i)), typeName(a.Type), m.In[i].String())
		}
		in = append(in, v)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errors.New(errors.PhaseInvoke, errors.KindCallFailed).
				Path(path...).
				Detail("method panicked: %v", r).
				Build()
		}
	}()

	var out []reflect.Value
	if m.variadic {
		out = m.fn.CallSlice(in)
	} else {
		out = m.fn.Call(in)
	}
	return m.results(out, path)
}

// Call is Invoke with box arguments read as the parameter types, so the
// box's relaxed reads apply.
func (m *Method) Call(obj *box.Box, args ...*box.Box) (*box.Box, error) {
	if len(args) != len(m.In) {
		return nil, errors.Arity([]string{m.owner.Name, m.Name}, len(m.In), len(args))
	}

	list := make([]Arg, len(args))
	for i, a := range args {
		if a == nil || a.Empty() {
			return nil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
				Path(m.owner.Name, m.Name, fmt.Sprintf("arg%d", i)).
				Detail("argument box is empty").
				Build()
		}
		v, err := box.GetValue(a, m.In[i])
		if err != nil {
			return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Path(m.owner.Name, m.Name, fmt.Sprintf("arg%d", i)).
				Stored(a.StaticType().String()).
				Requested(m.In[i].String()).
				Cause(err).
				Build()
		}
		list[i] = Arg{Type: m.In[i], Ptr: v.Addr().UnsafePointer()}
	}
	return m.Invoke(obj, list)
}

func (m *Method) results(out []reflect.Value, path []string) (*box.Box, error) {
	if m.errOut {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, errors.Wrap(errors.PhaseInvoke, errors.KindCallFailed,
				last.Interface().(error), fmt.Sprintf("%s.%s returned an error", path[0], path[1]))
		}
	}

	res := new(box.Box)
	switch len(out) {
	case 0:
	case 1:
		box.SetValue(res, out[0])
	default:
		all := make([]any, len(out))
		for i, v := range out {
			all[i] = v.Interface()
		}
		box.Set(res, all)
	}
	return res, nil
}

func coerce(a Arg, want reflect.Type) (reflect.Value, error) {
	if a.Type == nil || a.Ptr == nil {
		return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "argument has no value")
	}
	v := reflect.NewAt(a.Type, a.Ptr).Elem()
	switch {
	case a.Type == want:
		return v, nil
	case a.Type.AssignableTo(want):
		out := reflect.New(want).Elem()
		out.Set(v)
		return out, nil
	case numeric(a.Type) && numeric(want):
		return v.Convert(want), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, a.Type.String(), want.String())
}

func numeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}
